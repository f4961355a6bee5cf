package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursedesc/internal/catalog"
	"coursedesc/internal/components/chrono"
	"coursedesc/internal/components/telemetry"
	"coursedesc/internal/db"
	"coursedesc/internal/document"
	"coursedesc/internal/seed"
	configlibsql "coursedesc/lib/configutil/libsql"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

const seedFile = `[
	// the second record has no code
	{"id": "informatica", "name": "Informatica", "code": "8009/000"},
	{"id": "broken", "name": "Broken", "code": ""},
]`

func newCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/laurea/informatica/insegnamenti", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("year") != "2021" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<ul class="no-bullet"><li><a href="/laurea/informatica/2021/piano">Piano</a></li></ul>`)
	})
	mux.HandleFunc("/laurea/informatica/2021/piano", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table>
			<tr><td class="title"><a href="/teaching/basi-di-dati">BASI DI DATI</a></td></tr>
			<tr><td class="title">PROVA FINALE</td></tr>
		</table>`)
	})
	mux.HandleFunc("/teaching/basi-di-dati", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<ul><li class="language-en"><a href="http://%s/en/teaching/basi-di-dati">English</a></li></ul>`, r.Host)
	})
	mux.HandleFunc("/en/teaching/basi-di-dati", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div id="u-content-intro"><h1>BASI DI DATI</h1></div>
<div class="description-text">
Learning outcomes
  The student knows SQL.

Readings
  A book.
</div>`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func testClock(t *testing.T) chrono.TimeAPI {
	t.Helper()
	rome, err := time.LoadLocation(chrono.DefaultLocation)
	require.NoError(t, err)
	return chrono.FixedImpl{At: time.Date(2024, time.October, 1, 9, 0, 0, 0, rome)}
}

func testConfig(t *testing.T, baseUrl string) Config {
	t.Helper()

	dir := t.TempDir()
	seedPath := filepath.Join(dir, "degrees.json")
	require.NoError(t, os.WriteFile(seedPath, []byte(seedFile), 0600))

	cfg := defaultConfig()
	cfg.BaseUrl = baseUrl
	cfg.SeedFile = seedPath
	cfg.OutputDir = filepath.Join(dir, "output")
	return cfg
}

func TestRunScrape(t *testing.T) {
	server := newCatalogServer(t)
	cfg := testConfig(t, server.URL)
	cfg.Database = configlibsql.Struct{File: filepath.Join(t.TempDir(), "documents.db")}

	summary, err := runScrape(context.Background(), cfg, "", testClock(t), telemetry.NewRecorder())
	require.NoError(t, err)

	expectedRows := []summaryRow{{Degree: "informatica", Year: 2021, Written: 1, Skipped: 1, Status: "ok"}}
	if diff := cmp.Diff(expectedRows, summary.Rows); diff != "" {
		t.Fatalf("unexpected summary (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, summary.Documents)

	url := server.URL + "/en/teaching/basi-di-dati"
	contents, err := os.ReadFile(filepath.Join(cfg.OutputDir, "degree-informatica-2021.adoc"))
	require.NoError(t, err)
	require.Equal(t, "= Informatica (2021)\n\n"+
		"\n\n== "+url+"[DATABASES]\n\n"+
		"link:"+url+"[web], link:degree-informatica-2021.pdf[PDF], xref:degree-informatica-2021.adoc[ADOC].\n\n"+
		"=== Learning outcomes\n\nThe student knows SQL.",
		string(contents),
	)

	index, err := os.ReadFile(filepath.Join(cfg.OutputDir, document.IndexFilename))
	require.NoError(t, err)
	require.Contains(t, string(index), "== Informatica (2021)")

	conn, err := cfg.Database.OpenDB()
	require.NoError(t, err)
	defer conn.Close()
	stored, err := db.New(conn).ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 2)
	require.Equal(t, document.IndexFilename, stored[0].Filename)
	require.Equal(t, string(contents), stored[1].Content)
}

func TestRunScrapeUnknownDegree(t *testing.T) {
	cfg := testConfig(t, "http://localhost")

	_, err := runScrape(context.Background(), cfg, "Ingegneria Meccanica", testClock(t), telemetry.NewRecorder())
	require.ErrorIs(t, err, seed.ErrNoMatch)
}

func TestRunScrapeMissingSeedFile(t *testing.T) {
	cfg := testConfig(t, "http://localhost")
	cfg.SeedFile = filepath.Join(t.TempDir(), "absent.json")

	_, err := runScrape(context.Background(), cfg, "", testClock(t), telemetry.NewRecorder())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunScrapeInvalidTables(t *testing.T) {
	cfg := testConfig(t, "http://localhost")
	cfg.Catalog.Markers = catalog.MarkerTable{{Pattern: "Numerical Computing", Marker: "Teaching"}}

	_, err := runScrape(context.Background(), cfg, "", testClock(t), telemetry.NewRecorder())
	require.Equal(t, catalog.ReasonConfiguration, catalog.ReasonOf(err))
	_, err = os.Stat(cfg.OutputDir)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunScrapeCancelled(t *testing.T) {
	server := newCatalogServer(t)
	cfg := testConfig(t, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := runScrape(ctx, cfg, "", testClock(t), telemetry.NewRecorder())
	require.ErrorIs(t, err, context.Canceled)

	_, err = os.Stat(filepath.Join(cfg.OutputDir, document.IndexFilename))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coursedesc.json5")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"output_dir": "docs",
		"timeout": "10s",
		"catalog": {
			"translations": [{"match": "ALGORITMI", "replacement": "ALGORITHMS"}],
		},
	}`), 0600))

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "docs", cfg.OutputDir)
	require.Equal(t, "config/degrees.json", cfg.SeedFile)
	require.Equal(t, catalog.DefaultBaseUrl, cfg.BaseUrl)
	require.Equal(t, catalog.DefaultYearsPerDegree, cfg.YearsPerDegree)

	timeout, err := cfg.RequestTimeout()
	require.NoError(t, err)
	require.Equal(t, 10*time.Second, timeout)

	tables := cfg.Tables()
	require.Equal(t, catalog.Translations{{Match: "ALGORITMI", Replacement: "ALGORITHMS"}}, tables.Translations)
	require.Equal(t, catalog.DefaultTables().Markers, tables.Markers)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "coursedesc.json5"))
	require.NoError(t, err)
	require.Equal(t, defaultConfig(), cfg)
}

func TestRequestTimeoutInvalid(t *testing.T) {
	_, err := Config{Timeout: "soon"}.RequestTimeout()
	require.Equal(t, catalog.ReasonConfiguration, catalog.ReasonOf(err))
}

func TestListDegrees(t *testing.T) {
	var out bytes.Buffer
	listDegrees(&out, []seed.Record{
		{Id: "ai", Name: "Artificial Intelligence", Code: "9063/000"},
		{Id: "broken", Name: "Broken"},
	}, catalog.DefaultTables().SlugRules)

	require.Contains(t, out.String(), "artificial-intelligence")
	require.Contains(t, out.String(), "empty code")
}

func TestSummaryRender(t *testing.T) {
	var out bytes.Buffer
	Summary{
		Rows: []summaryRow{
			{Degree: "informatica", Year: 2021, Written: 1, Skipped: 1, Status: "ok"},
			{Degree: "broken", Status: "validation"},
		},
		Documents: 2,
	}.Render(&out)

	require.Contains(t, out.String(), "informatica")
	require.Contains(t, out.String(), "2021")
	require.Contains(t, out.String(), "validation")
}
