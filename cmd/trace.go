package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

var (
	traceFile    string
	traceJSON    bool
	traceClauses bool
)

var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Show the clauses behind a design",
	Long: `Design the requests in a file and print, for each, the routines that
ran and the clauses they implement.

Examples:
  rcbeam trace -f beam.yaml
  rcbeam trace -f beam.yaml --clauses
  rcbeam trace -f beam.json --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		reqs, err := design.LoadRequests(traceFile)
		if err != nil {
			return err
		}
		e, err := newEngine()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")

		for _, req := range reqs {
			res, err := e.Design(req)
			if err != nil {
				return err
			}
			rep := e.Trace(res)
			switch {
			case traceJSON:
				if err := enc.Encode(rep); err != nil {
					return err
				}
			case traceClauses:
				fmt.Fprintf(out, "\n%s (%s):\n", res.Label, res.Code)
				if err := report.WriteClauses(out, rep.Clauses()); err != nil {
					return err
				}
			default:
				title := fmt.Sprintf("CLAUSE TRACE - %s %s", res.Code, res.Label)
				if err := report.WriteTrace(out, title, rep); err != nil {
					return err
				}
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().StringVarP(&traceFile, "file", "f", "", "Request file (yaml or json) [required]")
	traceCmd.Flags().BoolVar(&traceJSON, "json", false, "Print the trace as JSON")
	traceCmd.Flags().BoolVar(&traceClauses, "clauses", false, "List the distinct clauses only")
	traceCmd.MarkFlagRequired("file")
}
