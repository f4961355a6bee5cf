package catalog

import (
	"context"
	"strings"

	"coursedesc/lib/htmlutil"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ParseStructure returns the rows of the course table of a structure page in
// document order. A row without a link is kept with an empty DetailLink.
func (c *Client) ParseStructure(ctx context.Context, structureUrl string) ([]CourseEntry, error) {
	ctx, span := tracer.Start(ctx, "client:ParseStructure")
	defer span.End()

	span.SetAttributes(attribute.String("url", structureUrl))

	p, err := c.fetch(ctx, structureUrl)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch structure page")
		return nil, err
	}

	var entries []CourseEntry
	for _, cell := range p.doc.Find(c.tables.Selectors.CourseTitle).Nodes {
		name := htmlutil.CleanText(htmlutil.GetText(cell))

		detailLink := ""
		anchor := htmlutil.FirstChildElement(cell, "a")
		href, ok := htmlutil.Attr(anchor, "href")
		if ok && strings.TrimSpace(href) != "" {
			resolved, err := resolve(p.url, href)
			if err != nil {
				c.tel.ReportWarning(report_client_parse_structure, err, structureUrl, name)
			} else {
				detailLink = resolved
			}
		}

		entries = append(entries, CourseEntry{
			Name:       name,
			DetailLink: detailLink,
		})
	}

	span.SetAttributes(attribute.Int("courses", len(entries)))
	return entries, nil
}
