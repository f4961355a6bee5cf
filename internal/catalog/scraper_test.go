package catalog

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"coursedesc/internal/components/chrono"
	"coursedesc/internal/components/telemetry"
	"coursedesc/internal/seed"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const probePage = `<html><body>
<ul class="no-bullet">
	<li><a href="/laurea/informatica/%d/insegnamenti/piano">Piano didattico</a></li>
	<li><a href="/laurea/informatica/other">Other</a></li>
</ul>
</body></html>`

const structurePage = `<html><body>
<table>
	<tr><td class="title"><a href="/teaching/basi-di-dati">BASI DI DATI</a></td><td>9 CFU</td></tr>
	<tr><td class="title">
		PROVA FINALE
	</td><td>3 CFU</td></tr>
</table>
</body></html>`

const detailPage = `<html><body>
<ul class="languages">
	<li class="language-it"><a href="%[1]s/it/teaching/basi-di-dati">Italiano</a></li>
	<li class="language-en"><a href="%[1]s/en/teaching/basi-di-dati">English</a></li>
</ul>
</body></html>`

const englishPage = `<html><body>
<div id="u-content-intro"><h1>
	BASI DI DATI
</h1></div>
<div class="description-text">
Course contents
Learning outcomes
  The student knows SQL.
Teaching contents
  Relational model.

Readings
  A book.
</div>
</body></html>`

// newCatalogServer serves a catalog where 2021 is the only year of the
// informatica degree that can be discovered.
func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/laurea/informatica/insegnamenti", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("year") {
		case "2021":
			fmt.Fprintf(w, probePage, 2021)
		case "2022":
			fmt.Fprint(w, "<html><body><p>no list here</p></body></html>")
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/laurea/informatica/2021/insegnamenti/piano", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, structurePage)
	})
	mux.HandleFunc("/teaching/basi-di-dati", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, detailPage, "http://"+r.Host)
	})
	mux.HandleFunc("/en/teaching/basi-di-dati", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, englishPage)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestScraper(t *testing.T, baseUrl string, tel telemetry.API) Scraper {
	t.Helper()

	client, err := NewClient(ClientOptions{
		BaseUrl: baseUrl,
		Tables:  DefaultTables(),
	}, tel)
	require.NoError(t, err)

	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	clock := chrono.FixedImpl{At: time.Date(2024, time.October, 1, 9, 0, 0, 0, rome)}

	return NewScraper(client, clock, tel, DefaultYearsPerDegree)
}

var informatica = seed.Record{Id: "informatica", Name: "Informatica", Code: "8009/000"}

func TestScraperWindow(t *testing.T) {
	scraper := newTestScraper(t, "http://localhost", telemetry.NewRecorder())
	require.Equal(t, []int{2020, 2021, 2022}, scraper.Window())
}

func TestResolveDegree(t *testing.T) {
	server := newCatalogServer(t)
	tel := telemetry.NewRecorder()
	scraper := newTestScraper(t, server.URL, tel)

	degree, err := scraper.ResolveDegree(context.Background(), informatica)
	require.NoError(t, err)

	expected := ResolvedDegree{
		Name:     "Informatica",
		Slug:     "informatica",
		Code:     "8009/000",
		Level:    Bachelor,
		SiteSlug: "informatica",
		YearUrls: map[int]string{
			2021: server.URL + "/laurea/informatica/2021/insegnamenti/piano",
		},
	}
	if diff := cmp.Diff(expected, degree); diff != "" {
		t.Fatalf("unexpected degree (-want +got):\n%s", diff)
	}

	warnings := tel.Matching(telemetry.KindWarning, report_client_discover_year)
	require.Len(t, warnings, 2)
	require.Equal(t, ReasonHttpStatus, warnings[0].Params[3])
	require.Equal(t, ReasonMissingElement, warnings[1].Params[3])
}

func TestResolveDegreeInvalidRecord(t *testing.T) {
	tel := telemetry.NewRecorder()
	scraper := newTestScraper(t, "http://localhost", tel)

	_, err := scraper.ResolveDegree(context.Background(), seed.Record{Id: "x", Name: "", Code: "1/000"})
	require.Equal(t, ReasonValidation, ReasonOf(err))
	require.Empty(t, tel.Reports(telemetry.KindDebug))
}

func TestParseStructure(t *testing.T) {
	server := newCatalogServer(t)
	scraper := newTestScraper(t, server.URL, telemetry.NewRecorder())

	entries, err := scraper.client.ParseStructure(context.Background(), server.URL+"/laurea/informatica/2021/insegnamenti/piano")
	require.NoError(t, err)
	require.Equal(t, []CourseEntry{
		{Name: "BASI DI DATI", DetailLink: server.URL + "/teaching/basi-di-dati"},
		{Name: "PROVA FINALE"},
	}, entries)

	_, err = scraper.client.ParseStructure(context.Background(), server.URL+"/absent")
	require.Equal(t, ReasonHttpStatus, ReasonOf(err))
}

func TestScrapeDegreeSkipsCourseWithoutLink(t *testing.T) {
	server := newCatalogServer(t)
	tel := telemetry.NewRecorder()
	scraper := newTestScraper(t, server.URL, tel)

	outcome, err := scraper.ScrapeDegree(context.Background(), informatica)
	require.NoError(t, err)

	require.Len(t, outcome.Years, 1)
	year := outcome.Years[0]
	require.Equal(t, 2021, year.Year)
	require.True(t, year.Ok())
	require.Len(t, year.Courses, 2)
	require.Equal(t, 1, year.Skipped())

	require.Equal(t, []TeachingDescription{{
		Title: "DATABASES",
		Url:   server.URL + "/en/teaching/basi-di-dati",
		Paragraphs: []string{
			"=== Learning outcomes",
			"The student knows SQL.",
			"=== Teaching contents",
			"Relational model.",
		},
		DegreeSlug: "informatica",
		Year:       2021,
	}}, year.Descriptions())

	skipped := year.Courses[1]
	require.Equal(t, "PROVA FINALE", skipped.Entry.Name)
	require.Equal(t, ReasonMissingLink, skipped.Reason())

	warnings := tel.Matching(telemetry.KindWarning, report_scraper_scrape_course)
	require.Len(t, warnings, 1)
	require.Equal(t, []any{skipped.Err, "informatica", 2021, "PROVA FINALE", ReasonMissingLink}, warnings[0].Params)

	counts := tel.Matching(telemetry.KindCount, report_scraper_courses)
	require.Len(t, counts, 1)
	require.Equal(t, int64(1), counts[0].Count)

	require.Equal(t, map[int][]TeachingDescription{2021: year.Descriptions()}, outcome.Processed())
}

func TestScrapeYearStructureFailure(t *testing.T) {
	server := newCatalogServer(t)
	tel := telemetry.NewRecorder()
	scraper := newTestScraper(t, server.URL, tel)

	degree := ResolvedDegree{
		Name:     "Informatica",
		Slug:     "informatica",
		YearUrls: map[int]string{2019: server.URL + "/gone"},
	}
	year := scraper.ScrapeYear(context.Background(), degree, 2019)
	require.False(t, year.Ok())
	require.Equal(t, ReasonHttpStatus, ReasonOf(year.Err))
	require.Empty(t, year.Courses)
	require.Len(t, tel.Matching(telemetry.KindWarning, report_scraper_scrape_year), 1)

	outcome := DegreeOutcome{Degree: degree, Years: []YearOutcome{year}}
	require.Empty(t, outcome.Processed())
}

func TestScrapeCourseMissingLanguageLink(t *testing.T) {
	server := newCatalogServer(t)
	scraper := newTestScraper(t, server.URL, telemetry.NewRecorder())

	// the english page has no language selector
	course := scraper.ScrapeCourse(context.Background(), CourseEntry{
		Name:       "BASI DI DATI",
		DetailLink: server.URL + "/en/teaching/basi-di-dati",
	})
	require.False(t, course.Ok())
	require.Equal(t, ReasonMissingLanguageLink, course.Reason())
}

func TestScrapeDegreeCancelled(t *testing.T) {
	server := newCatalogServer(t)
	scraper := newTestScraper(t, server.URL, telemetry.NewRecorder())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scraper.ScrapeDegree(ctx, informatica)
	require.ErrorIs(t, err, context.Canceled)
}

func TestNewClientRejectsTablesWithoutWildcard(t *testing.T) {
	tables := DefaultTables()
	tables.Markers = MarkerTable{{Pattern: "Numerical Computing", Marker: "Teaching"}}

	_, err := NewClient(ClientOptions{Tables: tables}, telemetry.NewRecorder())
	require.Equal(t, ReasonConfiguration, ReasonOf(err))
}
