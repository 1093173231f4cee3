package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

var (
	batchFile   string
	batchOutput string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Design many beams concurrently",
	Long: `Design every request in a file and report the results in input
order. The input may be YAML, JSON or an Excel workbook (.xlsx) with
one row per load case; see 'rcbeam batch --help' for the columns.

Results are printed as a summary table, or written to --output as
JSON (.json) or as a workbook (.xlsx) with a checks sheet.

Workbook columns:
  ` + strings.Join(report.ImportColumns, ", ") + `

Examples:
  rcbeam batch -f beams.yaml
  rcbeam batch -f beams.xlsx -o results.xlsx --workers 4`,
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVarP(&batchFile, "file", "f", "", "Request file (yaml, json or xlsx) [required]")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "Write results to file (json or xlsx)")
	batchCmd.MarkFlagRequired("file")
}

func readBatch(path string) ([]design.Request, error) {
	if !strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return design.LoadRequests(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reqs, err := report.ReadRequests(f)
	var ierr *report.ImportError
	if errors.As(err, &ierr) {
		// keep the rows that parsed
		for _, r := range ierr.Rows {
			logger.Warn("row skipped", "file", path, "row", r.Row, "column", r.Column, "error", r.Err)
		}
		return reqs, nil
	}
	return reqs, err
}

func runBatch(cmd *cobra.Command, args []string) error {
	reqs, err := readBatch(batchFile)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		return fmt.Errorf("%s holds no requests", batchFile)
	}
	e, err := newEngine()
	if err != nil {
		return err
	}
	items, err := e.Batch(cmd.Context(), reqs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if err := writeBatchSummary(out, items); err != nil {
		return err
	}
	if batchOutput != "" {
		if err := writeBatchOutput(batchOutput, items); err != nil {
			return err
		}
		fmt.Fprintf(out, "  ✓ Results exported to: %s\n\n", batchOutput)
	}

	failed := 0
	for _, it := range items {
		if it.Result == nil || it.Result.Status != design.StatusPass {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d designs did not pass", failed, len(items))
	}
	return nil
}

func writeBatchSummary(out io.Writer, items []engine.Item) error {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintf(out, "     BATCH DESIGN - %d REQUESTS\n", len(items))
	fmt.Fprintln(out, "═══════════════════════════════════════════════════════════════")
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  #\tLabel\tCode\tStatus\tGoverning\tUtil.\n")
	fmt.Fprintf(w, "  ─\t─────\t────\t──────\t─────────\t─────\n")
	for _, it := range items {
		res := it.Result
		if res == nil {
			fmt.Fprintf(w, "  %d\t\t\terror\t%s\t\n", it.Index+1, it.Error)
			continue
		}
		fmt.Fprintf(w, "  %d\t%s\t%s\t%s\t%s\t%.3f\n",
			it.Index+1, res.Label, res.Code, res.Status, res.Governing, res.Utilisation)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}

func writeBatchOutput(path string, items []engine.Item) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = report.WriteResults(f, items)
	case ".json":
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		err = enc.Encode(items)
	default:
		err = fmt.Errorf("unsupported output format %q (use .json or .xlsx)", filepath.Ext(path))
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
