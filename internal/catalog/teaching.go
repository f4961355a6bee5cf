package catalog

import (
	"context"
	"fmt"
	"html"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EnglishUrlFromFragment finds the url embedded in the markup of the english
// language selector entry: the text from the first "http" up to the next
// double quote.
func EnglishUrlFromFragment(fragment string) (string, bool) {
	start := strings.Index(fragment, "http")
	if start < 0 {
		return "", false
	}
	rest := fragment[start:]
	end := strings.IndexByte(rest, '"')
	if end <= 0 {
		return "", false
	}
	// attribute values are serialized with escaped entities
	return html.UnescapeString(rest[:end]), true
}

// ResolveEnglishUrl follows the detail link of a course and returns the url of
// the english version of its page.
func (c *Client) ResolveEnglishUrl(ctx context.Context, entry CourseEntry) (string, error) {
	ctx, span := tracer.Start(ctx, "client:ResolveEnglishUrl")
	defer span.End()

	if entry.DetailLink == "" {
		span.SetStatus(codes.Error, "missing link")
		return "", ParseError{
			Reason: ReasonMissingLink,
			What:   fmt.Sprintf("course %q has no detail link", entry.Name),
		}
	}
	span.SetAttributes(attribute.String("url", entry.DetailLink))

	p, err := c.fetch(ctx, entry.DetailLink)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch detail page")
		return "", err
	}

	selection := p.doc.Find(c.tables.Selectors.EnglishLanguage).First()
	if selection.Length() == 0 {
		span.SetStatus(codes.Error, "missing language selector")
		return "", ParseError{
			Url:    entry.DetailLink,
			Reason: ReasonMissingLanguageLink,
			What:   fmt.Sprintf("english language entry (%s)", c.tables.Selectors.EnglishLanguage),
		}
	}

	fragment, err := selection.Html()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to render language selector")
		return "", ParseError{
			Url:    entry.DetailLink,
			Reason: ReasonMissingLanguageLink,
			What:   "english language entry markup",
			Err:    err,
		}
	}

	englishUrl, ok := EnglishUrlFromFragment(fragment)
	if !ok {
		span.SetStatus(codes.Error, "missing english url")
		return "", ParseError{
			Url:    entry.DetailLink,
			Reason: ReasonMissingLanguageLink,
			What:   "quoted url in english language entry",
		}
	}

	return englishUrl, nil
}
