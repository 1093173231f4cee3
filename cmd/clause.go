package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/clause"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

var (
	clauseSearch   string
	clauseCategory string
	clauseCode     string
)

var clauseCmd = &cobra.Command{
	Use:   "clause [id]",
	Short: "Look up design-code clauses",
	Long: `Print a clause and the routines that implement it, or list clauses
by keyword, category or code.

Categories: flexure, shear, torsion, detailing, serviceability,
material, ductile, loads

Examples:
  rcbeam clause IS456:40.1
  rcbeam clause --search "development length"
  rcbeam clause --category shear --standard NSCP2015`,
	Args: cobra.MaximumNArgs(1),
	RunE: runClause,
}

func init() {
	rootCmd.AddCommand(clauseCmd)

	clauseCmd.Flags().StringVarP(&clauseSearch, "search", "s", "", "Keywords to match in titles and formulas")
	clauseCmd.Flags().StringVar(&clauseCategory, "category", "", "Clause category")
	clauseCmd.Flags().StringVar(&clauseCode, "standard", "", "Standard, e.g. IS456, IS13920, NSCP2015")
}

func runClause(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	reg := clause.Default()
	db := reg.Database()

	if len(args) == 1 {
		ref, err := db.Clause(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\n  %s  %s\n", ref.ID, ref.Title)
		fmt.Fprintf(out, "  Category: %s\n", ref.Category)
		if ref.Formula != "" {
			fmt.Fprintf(out, "  Formula:  %s\n", ref.Formula)
		}
		if len(ref.Tables) > 0 {
			fmt.Fprintf(out, "  Tables:   %s\n", strings.Join(ref.Tables, ", "))
		}
		if len(ref.Figures) > 0 {
			fmt.Fprintf(out, "  Figures:  %s\n", strings.Join(ref.Figures, ", "))
		}
		if routines := reg.ImplementedBy(ref.ID); len(routines) > 0 {
			fmt.Fprintf(out, "  Used by:  %s\n", strings.Join(routines, ", "))
		}
		fmt.Fprintln(out)
		return nil
	}

	var refs []clause.Reference
	switch {
	case clauseSearch != "":
		refs = db.Search(clauseSearch)
	case clauseCategory != "":
		refs = db.ByCategory(clause.Category(strings.ToLower(clauseCategory)))
	case clauseCode != "":
		refs = db.ByCode(clauseCode)
	default:
		for _, s := range db.Standards() {
			fmt.Fprintf(out, "  %-10s %s (%d clauses)\n", s.Code, s.Title, len(db.ByCode(s.Code)))
		}
		return nil
	}

	var kept []clause.Reference
	for _, r := range refs {
		if clauseCategory != "" && !strings.EqualFold(string(r.Category), clauseCategory) {
			continue
		}
		if clauseCode != "" && !strings.EqualFold(r.Code, clauseCode) {
			continue
		}
		kept = append(kept, r)
	}
	if len(kept) == 0 {
		return fmt.Errorf("no clauses match")
	}
	return report.WriteClauses(out, kept)
}
