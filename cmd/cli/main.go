package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"cordex/domain/snapshot"
	"cordex/domain/stats"
	"cordex/domain/table"
	"cordex/internal/config"
	"cordex/internal/container"
	"cordex/internal/errors"
	"cordex/internal/logging"
	"cordex/internal/report"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	file    string
	verbose bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:           "cordex",
		Short:         "Explore the CORD-19 metadata file from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.file, "file", "", "Metadata file (default $CORDEX_DATA_FILE or metadata.csv)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log pipeline progress to stderr")

	rootCmd.AddCommand(
		newReportCmd(&flags),
		newFilterCmd(&flags),
		newBoundsCmd(&flags),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error [%s]: %v\n", errors.GetCode(err), err)
		stop()
		os.Exit(1)
	}
}

// load builds the snapshot of the configured file
func load(ctx context.Context, flags *globalFlags) (*container.Container, *snapshot.Snapshot, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if flags.file != "" {
		cfg.Data.File = flags.file
	}
	cfg.Data.Watch = false
	if !flags.verbose {
		cfg.Logging.Level = "warn"
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	c, err := container.New(cfg, logger, nil)
	if err != nil {
		return nil, nil, err
	}
	snap, err := c.Source.Current(ctx)
	if err != nil {
		return nil, nil, err
	}
	return c, snap, nil
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the full analysis of the metadata file",
		Long: `Print the shape, missing values, descriptive statistics, aggregates and the
default year range view of the metadata file.

Example: cordex report --format markdown > report.md`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			view, err := c.Pipeline.Filter(snap, c.Config.Pipeline.DefaultLowYear, c.Config.Pipeline.DefaultHighYear, c.Config.Pipeline.FilterLimit)
			if err != nil {
				return err
			}
			return writeReport(cmd.OutOrStdout(), format, snap, &view)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown or json")
	return cmd
}

func newFilterCmd(flags *globalFlags) *cobra.Command {
	var low, high, limit int
	var format string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "List the papers published within a year range",
		Long: `List title, authors, journal and year of the papers whose publication year lies
in [low, high]. Rows without a year never match.

Example: cordex filter --low 2020 --high 2021 --limit 50`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if !cmd.Flags().Changed("low") {
				low = c.Config.Pipeline.DefaultLowYear
			}
			if !cmd.Flags().Changed("high") {
				high = c.Config.Pipeline.DefaultHighYear
			}
			if !cmd.Flags().Changed("limit") {
				limit = c.Config.Pipeline.FilterLimit
			}

			view, err := c.Pipeline.Filter(snap, low, high, limit)
			if err != nil {
				return err
			}
			return writeFiltered(cmd.OutOrStdout(), format, &view)
		},
	}

	cmd.Flags().IntVar(&low, "low", 0, "First year of the range (default $CORDEX_YEAR_LOW)")
	cmd.Flags().IntVar(&high, "high", 0, "Last year of the range (default $CORDEX_YEAR_HIGH)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum rows to print (default $CORDEX_FILTER_LIMIT)")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	return cmd
}

func newBoundsCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "bounds",
		Short: "Print the earliest and latest publication year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, snap, err := load(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer c.Shutdown(cmd.Context())

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snap.Bounds)
			}
			report.Bounds(cmd.OutOrStdout(), snap.Bounds)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func writeReport(w io.Writer, format string, snap *snapshot.Snapshot, view *stats.FilteredView) error {
	switch strings.ToLower(format) {
	case "text":
		report.Terminal(w, snap, view)
		return nil
	case "markdown", "md":
		_, err := io.WriteString(w, report.Markdown(snap, view))
		return err
	case "json":
		return writeJSON(w, struct {
			Shape    snapshot.Shape     `json:"shape"`
			Snapshot *snapshot.Snapshot `json:"snapshot"`
			Filtered filteredJSON       `json:"filtered"`
		}{snap.Shape(), snap, toFilteredJSON(view)})
	}
	return errors.InvalidInput(fmt.Sprintf("unknown format %q, want text, markdown or json", format))
}

func writeFiltered(w io.Writer, format string, view *stats.FilteredView) error {
	switch strings.ToLower(format) {
	case "text":
		report.Filtered(w, view)
		return nil
	case "json":
		return writeJSON(w, toFilteredJSON(view))
	}
	return errors.InvalidInput(fmt.Sprintf("unknown format %q, want text or json", format))
}

type filteredJSON struct {
	stats.FilteredView
	Columns []string       `json:"columns"`
	Rows    [][]table.Cell `json:"rows"`
}

func toFilteredJSON(view *stats.FilteredView) filteredJSON {
	out := filteredJSON{FilteredView: *view, Rows: [][]table.Cell{}}
	if view.Table == nil {
		return out
	}
	out.Columns = view.Table.ColumnNames()
	for _, rec := range view.Table.Records() {
		row := make([]table.Cell, len(rec))
		for i, v := range rec {
			row[i] = table.Cell(v)
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
