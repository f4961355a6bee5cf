package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"coursedesc/internal/catalog"
	"coursedesc/internal/components/chrono"
	"coursedesc/internal/components/telemetry"
	"coursedesc/internal/document"
	"coursedesc/internal/seed"
	"coursedesc/internal/sink"
	"coursedesc/lib/restyutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

var scrapeFlags struct {
	seed    *string
	output  *string
	years   *int
	degree  *string
	baseUrl *string
	rps     *float64
	dump    *string
	db      *string
}

func init() {
	flags := scrapeCmd.Flags()
	scrapeFlags.seed = flags.String("seed", "", "The seed file listing the degrees to scrape.")
	scrapeFlags.output = flags.String("output", "", "The directory documents are written to.")
	scrapeFlags.years = flags.Int("years", 0, "The number of academic years scraped per degree.")
	scrapeFlags.degree = flags.String("degree", "", "Only scrape the degree with this id, or the one with the closest name.")
	scrapeFlags.baseUrl = flags.String("base-url", "", "The root of the course catalog.")
	scrapeFlags.rps = flags.Float64("rps", 0, "The maximum number of requests per second, 0 is unlimited.")
	scrapeFlags.dump = flags.String("dump-http", "", "Writes every http exchange to this directory.")
	scrapeFlags.db = flags.String("db", "", "Also writes documents to this sqlite database.")
	rootCmd.AddCommand(scrapeCmd)
}

// applyFlags overrides the configuration with the flags that were set.
func applyFlags(cmd *cobra.Command, cfg *Config) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.SeedFile = *scrapeFlags.seed
	}
	if flags.Changed("output") {
		cfg.OutputDir = *scrapeFlags.output
	}
	if flags.Changed("years") {
		cfg.YearsPerDegree = *scrapeFlags.years
	}
	if flags.Changed("base-url") {
		cfg.BaseUrl = *scrapeFlags.baseUrl
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond = *scrapeFlags.rps
	}
	if flags.Changed("dump-http") {
		cfg.DumpHttpDir = *scrapeFlags.dump
	}
	if flags.Changed("db") {
		cfg.Database.Url = ""
		cfg.Database.File = *scrapeFlags.db
	}
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--degree <id or name>] [--output <dir>]",
	Short: "Scrapes the course descriptions of every degree in the seed file and writes one document per degree and year.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			return err
		}
		applyFlags(cmd, &cfg)

		clock, err := chrono.NewStandardImpl()
		if err != nil {
			return err
		}

		tel := telemetry.Tee{telemetry.SlogAPI{}}
		metrics, err := telemetry.NewOtelAPI(otel.GetMeterProvider())
		if err != nil {
			slog.Warn("failed to create report metrics", "err", err)
		} else {
			tel = append(tel, metrics)
		}

		t1 := time.Now()
		summary, err := runScrape(
			cmd.Context(),
			cfg,
			*scrapeFlags.degree,
			clock,
			tel,
		)
		if err != nil {
			return err
		}
		summary.Render(os.Stdout)

		slog.Info(
			"scraping time",
			"seconds", time.Since(t1).Seconds(),
			"documents", summary.Documents,
		)
		return nil
	},
}

type summaryRow struct {
	Degree  string
	Year    int
	Written int
	Skipped int
	Status  string
}

// Summary describes what a run wrote, one row per degree and year.
type Summary struct {
	Rows []summaryRow
	// Documents counts the written documents, the index included.
	Documents int
}

func (s Summary) Render(w io.Writer) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Degree", "Year", "Written", "Skipped", "Status"})
	for _, row := range s.Rows {
		year := "-"
		if row.Year > 0 {
			year = strconv.Itoa(row.Year)
		}
		t.AppendRow(table.Row{row.Degree, year, row.Written, row.Skipped, row.Status})
	}
	t.AppendFooter(table.Row{"", "", "", "Documents", s.Documents})
	t.Render()
}

func yearStatus(y catalog.YearOutcome) string {
	if y.Ok() {
		return "ok"
	}
	return string(catalog.ReasonOf(y.Err))
}

func openSink(ctx context.Context, cfg Config, clock chrono.TimeAPI) (sink.Sink, error) {
	files, err := sink.NewFileSink(cfg.OutputDir)
	if err != nil {
		return nil, err
	}
	out := sink.Multi{files}

	if cfg.Database.Enabled() {
		conn, err := cfg.Database.OpenDB()
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db, err := sink.NewSQLSink(ctx, conn, clock)
		if err != nil {
			conn.Close()
			return nil, err
		}
		out = append(out, db)
	}

	return out, nil
}

func newScraper(cfg Config, clock chrono.TimeAPI, tel telemetry.API) (catalog.Scraper, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return catalog.Scraper{}, err
	}

	opts := catalog.ClientOptions{
		BaseUrl:           cfg.BaseUrl,
		Tables:            cfg.Tables(),
		RequestsPerSecond: cfg.RequestsPerSecond,
		Timeout:           timeout,
		UserAgent:         cfg.UserAgent,
		CloudflareBypass:  cfg.CloudflareBypass,
	}
	if cfg.DumpHttpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.DumpHttpDir)
		if err != nil {
			return catalog.Scraper{}, err
		}
		opts.DumpOutput = output
	}

	client, err := catalog.NewClient(opts, tel)
	if err != nil {
		return catalog.Scraper{}, err
	}
	return catalog.NewScraper(client, clock, tel, cfg.YearsPerDegree), nil
}

// runScrape scrapes the degrees of the seed file matching query (every degree
// when query is empty) and writes their documents followed by the index.
// Invalid seed records and failing years or courses are skipped, the error
// is only set for failures that leave nothing to write.
func runScrape(ctx context.Context, cfg Config, query string, clock chrono.TimeAPI, tel telemetry.API) (Summary, error) {
	records, err := seed.Load(cfg.SeedFile)
	if err != nil {
		return Summary{}, err
	}
	records, invalid := seed.Partition(records)
	for _, err := range invalid {
		slog.Warn("skipping seed record", "err", err)
	}
	records, err = seed.Filter(records, query)
	if err != nil {
		return Summary{}, err
	}

	scraper, err := newScraper(cfg, clock, tel)
	if err != nil {
		return Summary{}, err
	}

	out, err := openSink(ctx, cfg, clock)
	if err != nil {
		return Summary{}, err
	}
	defer out.Close()

	slog.Info("scraping degrees", "count", len(records), "years", scraper.Window())

	summary := Summary{}
	var degrees [][]document.Document
	for _, record := range records {
		slog.Info("scraping degree", "id", record.Id, "name", record.Name)

		outcome, err := scraper.ScrapeDegree(ctx, record)
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}
		if err != nil {
			slog.Warn("skipping degree", "id", record.Id, "err", err)
			summary.Rows = append(summary.Rows, summaryRow{
				Degree: record.Id,
				Status: string(catalog.ReasonOf(err)),
			})
			continue
		}
		if len(outcome.Years) == 0 {
			summary.Rows = append(summary.Rows, summaryRow{
				Degree: record.Id,
				Status: "no years found",
			})
		}
		for _, y := range outcome.Years {
			summary.Rows = append(summary.Rows, summaryRow{
				Degree:  record.Id,
				Year:    y.Year,
				Written: len(y.Descriptions()),
				Skipped: y.Skipped(),
				Status:  yearStatus(y),
			})
		}

		docs := document.Assemble(outcome.Degree, outcome.Processed())
		if len(docs) > 0 {
			err = out.Write(ctx, docs...)
			if err != nil {
				return summary, fmt.Errorf("write documents of %s: %w", record.Id, err)
			}
		}
		summary.Documents += len(docs)
		degrees = append(degrees, docs)
	}

	err = out.Write(ctx, document.Index(degrees))
	if err != nil {
		return summary, fmt.Errorf("write index: %w", err)
	}
	summary.Documents++

	return summary, nil
}
