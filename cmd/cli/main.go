package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"sheetdiff/domain/run"
	"sheetdiff/internal/config"
	"sheetdiff/internal/container"
)

// globalFlags override the environment for a single invocation
type globalFlags struct {
	envFile string
	recalc  string
	formats []string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var flags globalFlags
	rootCmd := &cobra.Command{
		Use:           "sheetdiff",
		Short:         "Compare V1 and V2 Excel workbooks and report cell differences",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&flags.envFile, "env-file", ".env", "Environment file to load before reading configuration")
	rootCmd.PersistentFlags().StringVar(&flags.recalc, "recalc", "", "Recalculation mode: none, excelize or libreoffice (overrides RECALC_MODE)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.formats, "format", nil, "Report formats: markdown, xlsx, html (overrides REPORT_FORMATS)")

	rootCmd.AddCommand(
		newCompareCmd(&flags),
		newPairCmd(&flags),
		newLayoutsCmd(&flags),
		newRunsCmd(&flags),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and wires the application
func setup(ctx context.Context, flags *globalFlags, withDatabase bool, overrides ...func(*config.Config)) (*container.Container, error) {
	if err := config.LoadEnv(flags.envFile); err != nil {
		return nil, err
	}
	if flags.recalc != "" {
		os.Setenv("RECALC_MODE", flags.recalc)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.formats != nil {
		cfg.Batch.ReportFormats = flags.formats
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c, err := container.New(cfg, nil)
	if err != nil {
		return nil, err
	}
	if withDatabase {
		if err := c.InitWithDatabase(ctx); err != nil {
			c.Close()
			return nil, err
		}
	}
	return c, nil
}

func newCompareCmd(flags *globalFlags) *cobra.Command {
	var root, reportDir, jsonOut string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare every <group>/V1 and <group>/V2 folder under a batch root",
		Long: `Compare every group folder under the batch root. Each group holds V1 and V2
folders; annotated V2 copies are written to the group's result folder and the
batch reports to the report directory (default: the root).

Example: sheetdiff compare --root ./recompare --format markdown,xlsx --recalc excelize`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), flags, true, func(cfg *config.Config) {
				if reportDir != "" {
					cfg.Batch.ReportDir = reportDir
				}
			})
			if err != nil {
				return err
			}
			defer c.Close()

			record, err := c.Batch.Run(cmd.Context(), root)
			if err != nil {
				return err
			}
			printRecord(cmd.OutOrStdout(), record)

			if jsonOut != "" {
				return writeJSON(jsonOut, record)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", ".", "Batch root folder")
	cmd.Flags().StringVar(&reportDir, "report-dir", "", "Folder for batch reports (overrides REPORT_DIR)")
	cmd.Flags().StringVar(&jsonOut, "json", "", "Also write the run record as JSON to this file")

	return cmd
}

func newPairCmd(flags *globalFlags) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "pair V1 V2",
		Short: "Compare a single pair of workbooks",
		Long: `Compare one V1 workbook with its V2 counterpart. With --out the annotated
V2 copy is saved there as <status>_<name>.xlsx.

Example: sheetdiff pair old/会計.xlsx new/会計.xlsx --out result`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer c.Close()

			if outDir != "" {
				if err := os.MkdirAll(outDir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", outDir, err)
				}
			}

			pair := c.Batch.ComparePair(cmd.Context(), args[0], args[1], outDir)
			printPair(cmd.OutOrStdout(), pair)
			if pair.Failed() {
				return fmt.Errorf("comparison failed: %s", pair.Error)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&outDir, "out", "", "Folder for the annotated V2 copy")
	return cmd
}

func newLayoutsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "layouts",
		Short: "List the sheet layouts in effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), flags, false)
			if err != nil {
				return err
			}
			defer c.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-16s %-12s %-9s %s\n", "SHEET", "STRATEGY", "START", "COLUMNS")
			for _, l := range c.Registry.Layouts() {
				columns := fmt.Sprintf("[%d, %d)", l.StartColumn, l.EndColumn)
				if l.EndColumn == 0 {
					columns = fmt.Sprintf("[%d, max]", l.StartColumn)
				}
				fmt.Fprintf(out, "%-16s %-12s %-9d %s\n", l.Sheet, l.Strategy.Name(), l.StartRow, columns)
			}
			fmt.Fprintln(out, "Other sheets are compared positionally from row 1.")
			return nil
		},
	}
}

func newRunsCmd(flags *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored comparison runs (requires DATABASE_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := setup(cmd.Context(), flags, true)
			if err != nil {
				return err
			}
			defer c.Close()
			if !c.Config.HasDatabase() {
				return fmt.Errorf("DATABASE_URL is not set; run history is only kept in PostgreSQL")
			}

			runs, err := c.Runs.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %-30s pairs=%d differing=%d mismatches=%d\n",
					r.ID, r.StartedAt.Time().Format("2006-01-02 15:04:05"), r.Root, r.Pairs, r.DifferingPairs, r.TotalMismatches)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}

func printRecord(out io.Writer, record *run.Record) {
	for _, g := range record.Groups {
		fmt.Fprintf(out, "%s  %s  mismatches=%d\n", g.Status(), g.Name, g.TotalMismatches())
		for _, p := range g.Pairs {
			printPair(out, p)
		}
		for _, w := range g.Warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}

	s := record.Summary
	fmt.Fprintf(out, "\n%d groups, %d pairs, %d differing, %d failed, %d mismatches\n",
		s.Groups, s.Pairs, s.DifferingPairs, s.FailedPairs, s.TotalMismatches)
	for format, path := range record.ReportPaths {
		fmt.Fprintf(out, "%s report: %s\n", format, path)
	}
}

func printPair(out io.Writer, p *run.PairResult) {
	if p.Failed() {
		fmt.Fprintf(out, "  !  %s: %s\n", p.Base, p.Error)
		return
	}
	fmt.Fprintf(out, "  %s  %s  mismatches=%d\n", p.Status, p.Base, p.TotalMismatches)
	for _, s := range p.Sheets {
		fmt.Fprintf(out, "       %s: %d\n", s.Sheet, s.MismatchCount)
	}
	if p.NoCommonSheets {
		fmt.Fprintln(out, "       no common sheets")
	}
	if p.ResultPath != "" {
		fmt.Fprintf(out, "       saved %s\n", p.ResultPath)
	}
}

func writeJSON(path string, record *run.Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
