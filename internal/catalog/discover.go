package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ProbeUrl is the page of a degree for a given academic year, it links to
// the structure page of that year.
func (c *Client) ProbeUrl(level Level, siteSlug string, year int) string {
	return fmt.Sprintf(
		"%s/%s/%s/insegnamenti?year=%s",
		c.BaseUrl.String(),
		url.PathEscape(level.String()),
		url.PathEscape(siteSlug),
		strconv.Itoa(year),
	)
}

// DiscoverYear returns the structure page url of a degree for one academic year.
func (c *Client) DiscoverYear(ctx context.Context, level Level, siteSlug string, year int) (string, error) {
	ctx, span := tracer.Start(ctx, "client:DiscoverYear")
	defer span.End()

	probe := c.ProbeUrl(level, siteSlug, year)
	span.SetAttributes(attribute.String("probe", probe))
	c.tel.ReportDebug("visiting probe page", probe)

	p, err := c.fetch(ctx, probe)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch probe page")
		return "", err
	}

	link := p.doc.Find(c.tables.Selectors.YearLink).First()
	href, ok := link.Attr("href")
	if link.Length() == 0 || !ok {
		err = ParseError{
			Url:    probe,
			Reason: ReasonMissingElement,
			What:   fmt.Sprintf("structure page link (%s)", c.tables.Selectors.YearLink),
		}
		span.SetStatus(codes.Error, "missing structure page link")
		return "", err
	}

	structureUrl, err := resolve(p.url, href)
	if err != nil {
		err = ParseError{
			Url:    probe,
			Reason: ReasonMissingElement,
			What:   "structure page link",
			Err:    err,
		}
		span.SetStatus(codes.Error, "invalid structure page link")
		return "", err
	}

	c.tel.ReportDebug("got structure page link", year, structureUrl)
	return structureUrl, nil
}

// DiscoverYears returns the structure page url of every year that could be
// discovered, a year that fails is reported and left out.
func (c *Client) DiscoverYears(ctx context.Context, level Level, siteSlug string, years []int) map[int]string {
	out := map[int]string{}
	for _, year := range years {
		if ctx.Err() != nil {
			break
		}
		structureUrl, err := c.DiscoverYear(ctx, level, siteSlug, year)
		if err != nil {
			c.tel.ReportWarning(
				report_client_discover_year,
				err,
				siteSlug,
				year,
				ReasonOf(err),
			)
			continue
		}
		out[year] = structureUrl
	}
	return out
}
