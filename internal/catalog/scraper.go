// scraper.go walks a degree through every page of the catalog, client.go and
// the files next to it only know how to read a single page.

package catalog

import (
	"context"
	"sort"
	"strings"

	"coursedesc/internal/assert"
	"coursedesc/internal/components/chrono"
	"coursedesc/internal/components/telemetry"
	"coursedesc/internal/seed"
)

const (
	report_scraper_resolve_degree = "scraper.resolve-degree"
	report_scraper_scrape_year    = "scraper.scrape-year"
	report_scraper_scrape_course  = "scraper.scrape-course"
	report_scraper_courses        = "scraper.courses"
)

// Scraper processes degrees one at a time, in order, without any concurrency.
type Scraper struct {
	client         *Client
	time           chrono.TimeAPI
	tel            telemetry.API
	yearsPerDegree int
}

func NewScraper(client *Client, time chrono.TimeAPI, tel telemetry.API, yearsPerDegree int) Scraper {
	assert.NotNil(client)
	assert.NotNil(time)
	assert.NotNil(tel)
	if yearsPerDegree == 0 {
		yearsPerDegree = DefaultYearsPerDegree
	}
	assert.Positive(yearsPerDegree)

	return Scraper{
		client:         client,
		time:           time,
		tel:            telemetry.NewScopedAPI("catalog", tel),
		yearsPerDegree: yearsPerDegree,
	}
}

// Window returns the academic years scraped for every degree.
func (s Scraper) Window() []int {
	return ScrapeWindow(AcademicYear(s.time.Now()), s.yearsPerDegree)
}

// ResolveDegree validates a record, infers its catalog location and discovers
// the structure page of every year of the window.
func (s Scraper) ResolveDegree(ctx context.Context, record seed.Record) (ResolvedDegree, error) {
	level, siteSlug, err := ResolveSlug(record, s.client.tables.SlugRules)
	if err != nil {
		s.tel.ReportWarning(report_scraper_resolve_degree, err)
		return ResolvedDegree{}, err
	}

	yearUrls := s.client.DiscoverYears(ctx, level, siteSlug, s.Window())
	if ctx.Err() != nil {
		return ResolvedDegree{}, ctx.Err()
	}

	return ResolvedDegree{
		Name:     record.Name,
		Slug:     record.Id,
		Code:     record.Code,
		Level:    level,
		SiteSlug: siteSlug,
		YearUrls: yearUrls,
	}, nil
}

// ScrapeCourse resolves, extracts and fixes up the description of one course.
func (s Scraper) ScrapeCourse(ctx context.Context, entry CourseEntry) CourseOutcome {
	englishUrl, err := s.client.ResolveEnglishUrl(ctx, entry)
	if err != nil {
		return CourseOutcome{Entry: entry, Err: err}
	}

	desc, err := s.client.ExtractDescription(ctx, englishUrl)
	if err != nil {
		return CourseOutcome{Entry: entry, Err: err}
	}

	translations := s.client.tables.Translations
	desc.Title = strings.TrimSpace(translations.Apply(desc.Title))
	body := translations.Apply(desc.Body())
	desc.Paragraphs = nil
	if body != "" {
		desc.Paragraphs = strings.Split(body, "\n\n")
	}
	desc.DegreeSlug = entry.DegreeSlug
	desc.Year = entry.Year

	return CourseOutcome{Entry: entry, Description: desc}
}

// ScrapeYear processes every course of the structure page of a year in row order.
func (s Scraper) ScrapeYear(ctx context.Context, degree ResolvedDegree, year int) YearOutcome {
	structureUrl := degree.YearUrls[year]
	outcome := YearOutcome{Year: year, Url: structureUrl}

	s.tel.ReportDebug("analysing year", degree.Slug, year, structureUrl)

	entries, err := s.client.ParseStructure(ctx, structureUrl)
	if err != nil {
		s.tel.ReportWarning(
			report_scraper_scrape_year,
			err,
			degree.Slug,
			year,
			ReasonOf(err),
		)
		outcome.Err = err
		return outcome
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			outcome.Err = ctx.Err()
			return outcome
		}

		entry.DegreeSlug = degree.Slug
		entry.Year = year
		s.tel.ReportDebug("visiting course", degree.Slug, year, entry.Name)

		course := s.ScrapeCourse(ctx, entry)
		if !course.Ok() {
			s.tel.ReportWarning(
				report_scraper_scrape_course,
				course.Err,
				degree.Slug,
				year,
				entry.Name,
				course.Reason(),
			)
		}
		outcome.Courses = append(outcome.Courses, course)
	}

	return outcome
}

// ScrapeDegree resolves a degree and processes each of its years in
// ascending order. The error is only set for an invalid record or a
// cancelled context, every other failure is part of the outcome.
func (s Scraper) ScrapeDegree(ctx context.Context, record seed.Record) (DegreeOutcome, error) {
	degree, err := s.ResolveDegree(ctx, record)
	if err != nil {
		return DegreeOutcome{}, err
	}

	years := make([]int, 0, len(degree.YearUrls))
	for year := range degree.YearUrls {
		years = append(years, year)
	}
	sort.Ints(years)

	outcome := DegreeOutcome{Degree: degree}
	written := 0
	for _, year := range years {
		y := s.ScrapeYear(ctx, degree, year)
		if ctx.Err() != nil {
			return DegreeOutcome{}, ctx.Err()
		}
		written += len(y.Descriptions())
		outcome.Years = append(outcome.Years, y)
	}

	s.tel.ReportCount(report_scraper_courses, int64(written))
	return outcome, nil
}
