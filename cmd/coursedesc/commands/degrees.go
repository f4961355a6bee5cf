package commands

import (
	"io"
	"os"

	"coursedesc/internal/catalog"
	"coursedesc/internal/seed"
	"coursedesc/lib/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var degreesSeed *string

func init() {
	degreesSeed = degreesCmd.Flags().String("seed", "", "The seed file to list, defaults to the configured one.")
	rootCmd.AddCommand(degreesCmd)
}

var degreesCmd = &cobra.Command{
	Use:   "degrees [--seed <path/to/degrees.json>]",
	Short: "Lists the degrees of the seed file and where they are looked up in the catalog.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cmd.Flags().Changed("seed") {
			cfg.SeedFile = *degreesSeed
		}

		records, err := seed.Load(cfg.SeedFile)
		if err != nil {
			serviceutil.Fatal("failed to load seed file", err)
		}
		listDegrees(os.Stdout, records, cfg.Tables().SlugRules)
	},
}

func listDegrees(w io.Writer, records []seed.Record, rules catalog.SlugRules) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Id", "Name", "Code", "Level", "Site slug", "Status"})

	for _, record := range records {
		level, siteSlug, err := catalog.ResolveSlug(record, rules)
		if err != nil {
			t.AppendRow(table.Row{record.Id, record.Name, record.Code, "", "", err.Error()})
			continue
		}
		t.AppendRow(table.Row{record.Id, record.Name, record.Code, level.String(), siteSlug, "ok"})
	}

	t.Render()
}
