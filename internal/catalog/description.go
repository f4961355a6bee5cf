package catalog

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// markerBackoff is the number of characters dropped right before the end marker.
const markerBackoff = 2

// ExtractBody slices the description block of a course between StartMarker
// and the end marker selected by title, then normalizes it into paragraphs.
//
// A block without StartMarker yields no paragraphs, an end marker that is
// not in the block makes the slice run to the end of the block.
func ExtractBody(block, title string, markers MarkerTable) ([]string, error) {
	marker, err := markers.Select(title)
	if err != nil {
		return nil, err
	}
	return Normalize(SliceBody(block, marker)), nil
}

// SliceBody returns the raw text between StartMarker (included) and the end
// marker, minus the last markerBackoff characters before the end marker.
func SliceBody(block, endMarker string) string {
	start := strings.Index(block, StartMarker)
	if start < 0 {
		start = len(block)
	}
	end := strings.Index(block, endMarker)
	if end < 0 || endMarker == "" {
		end = len(block)
	}

	for i := 0; i < markerBackoff && end > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(block[:end])
		end -= size
	}
	if end <= start {
		return ""
	}
	return block[start:end]
}

// Normalize splits text into lines, trims them and drops the empty ones.
func Normalize(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		paragraphs = append(paragraphs, line)
	}
	return paragraphs
}

// ExtractDescription reads the title and the description of an english
// teaching page.
func (c *Client) ExtractDescription(ctx context.Context, englishUrl string) (TeachingDescription, error) {
	ctx, span := tracer.Start(ctx, "client:ExtractDescription")
	defer span.End()

	span.SetAttributes(attribute.String("url", englishUrl))

	p, err := c.fetch(ctx, englishUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch teaching page")
		return TeachingDescription{}, err
	}

	titleSel := p.doc.Find(c.tables.Selectors.Title).First()
	if titleSel.Length() == 0 {
		span.SetStatus(codes.Error, "missing title")
		return TeachingDescription{}, ParseError{
			Url:    englishUrl,
			Reason: ReasonMissingElement,
			What:   fmt.Sprintf("teaching title (%s)", c.tables.Selectors.Title),
		}
	}
	descSel := p.doc.Find(c.tables.Selectors.Description).First()
	if descSel.Length() == 0 {
		span.SetStatus(codes.Error, "missing description")
		return TeachingDescription{}, ParseError{
			Url:    englishUrl,
			Reason: ReasonMissingElement,
			What:   fmt.Sprintf("teaching description (%s)", c.tables.Selectors.Description),
		}
	}

	title := strings.TrimSpace(titleSel.Text())
	paragraphs, err := ExtractBody(descSel.Text(), title, c.tables.Markers)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to extract body")
		return TeachingDescription{}, err
	}

	return TeachingDescription{
		Title:      title,
		Url:        englishUrl,
		Paragraphs: paragraphs,
	}, nil
}
