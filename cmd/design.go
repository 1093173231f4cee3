package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/design"
	"github.com/alexiusacademia/rcbeam/internal/diagram"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/material"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

var (
	// Request file, or inline geometry and loading
	designFile     string
	designLabel    string
	designShape    string
	designWidth    float64
	designDepth    float64
	designEffDepth float64
	designCover    float64
	designDPrime   float64
	designBf       float64
	designDf       float64
	designConcrete string
	designSteel    string
	designMu       float64
	designVu       float64
	designTu       float64
	designPu       float64
	designSpan     float64
	designSupport  string
	designBar      float64
	designDuctile  bool
	designLevels   []string

	// Output options
	designJSON        bool
	designShowDiagram bool
	designExportFile  string
	designStrainFile  string
	designDeflection  string
	designPDF         string
	designProject     string
	designShowTrace   bool
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Design a reinforced concrete beam",
	Long: `Design a beam for flexure, shear, detailing and serviceability.

The request is read from a YAML or JSON file (--file), which may hold
one request or a list, or built from flags. A file with unfactored
loads instead of demands is expanded with the code's load combinations.

Examples:
  # IS 456 beam from flags
  rcbeam design -b 230 --depth 450 -d 400 --cover 25 --concrete M20 --steel Fe415 --mu 60 --vu 100 --span 4000

  # NSCP beam with a section diagram and deflected shape
  rcbeam design --code NSCP2015 -b 300 --depth 500 -d 440 --cover 40 \
      --concrete FC28 --steel G415 --mu 150 --vu 120 --span 6000 --diagram --deflection defl.png

  # From a file, as JSON, with a PDF report
  rcbeam design -f beam.yaml --json --pdf beam.pdf`,
	RunE: runDesign,
}

func init() {
	rootCmd.AddCommand(designCmd)

	f := designCmd.Flags()
	f.StringVarP(&designFile, "file", "f", "", "Request file (yaml or json)")
	f.StringVar(&designLabel, "label", "", "Beam label")
	f.StringVar(&designShape, "shape", "", "Section shape: rectangular, tee, ell (default from flange flags)")
	f.Float64VarP(&designWidth, "width", "b", 0, "Web width (mm)")
	f.Float64Var(&designDepth, "depth", 0, "Overall depth D (mm)")
	f.Float64VarP(&designEffDepth, "effective-depth", "d", 0, "Effective depth d (mm)")
	f.Float64VarP(&designCover, "cover", "c", 25, "Clear cover (mm)")
	f.Float64Var(&designDPrime, "d-prime", 0, "Depth to compression steel d' (mm)")
	f.Float64Var(&designBf, "flange-width", 0, "Flange width bf (mm)")
	f.Float64Var(&designDf, "flange-thickness", 0, "Flange thickness Df (mm)")
	f.StringVar(&designConcrete, "concrete", "", "Concrete grade, e.g. M20 or FC28")
	f.StringVar(&designSteel, "steel", "", "Steel grade, e.g. Fe415 or G415")
	f.Float64VarP(&designMu, "mu", "m", 0, "Factored moment Mu (kN-m)")
	f.Float64Var(&designVu, "vu", 0, "Factored shear Vu (kN)")
	f.Float64Var(&designTu, "tu", 0, "Factored torsion Tu (kN-m)")
	f.Float64Var(&designPu, "pu", 0, "Factored axial force Pu (kN, compression positive)")
	f.Float64Var(&designSpan, "span", 0, "Effective span (mm)")
	f.StringVar(&designSupport, "support", "", "simply_supported, one_end_continuous, both_ends_continuous, cantilever")
	f.Float64Var(&designBar, "bar", 0, "Preferred main bar diameter (mm)")
	f.BoolVar(&designDuctile, "ductile", false, "Apply ductile (seismic) detailing")
	f.StringSliceVar(&designLevels, "levels", nil, "Serviceability levels: basic, intermediate, advanced, crack")

	f.BoolVar(&designJSON, "json", false, "Print results as JSON")
	f.BoolVar(&designShowDiagram, "diagram", false, "Show ASCII section and stress diagram")
	f.StringVarP(&designExportFile, "output", "o", "", "Export section diagram to file (png, svg, pdf)")
	f.StringVar(&designStrainFile, "strain", "", "Export strain diagram to file (png, svg, pdf)")
	f.StringVar(&designDeflection, "deflection", "", "Export moment and deflection diagram to file (png, svg, pdf)")
	f.StringVar(&designPDF, "pdf", "", "Write a PDF report with the clause trace")
	f.StringVar(&designProject, "project", "", "Project name for the PDF report")
	f.BoolVar(&designShowTrace, "trace", false, "Print the clause trace")
}

// requestFromFlags builds a request from the inline flags
func requestFromFlags() (design.Request, error) {
	if designWidth <= 0 || designDepth <= 0 || designEffDepth <= 0 {
		return design.Request{}, fmt.Errorf("--width, --depth and --effective-depth are required without --file")
	}
	if designConcrete == "" || designSteel == "" {
		return design.Request{}, fmt.Errorf("--concrete and --steel are required without --file")
	}
	req := design.Request{
		Label: designLabel,
		Section: material.SectionGeometry{
			Shape:            material.Shape(strings.ToLower(designShape)),
			Width:            designWidth,
			Depth:            designDepth,
			EffectiveDepth:   designEffDepth,
			Cover:            designCover,
			CompressionDepth: designDPrime,
			FlangeWidth:      designBf,
			FlangeThickness:  designDf,
		},
		Concrete: designConcrete,
		Steel:    designSteel,
		Demands: []material.ForceDemand{{
			Name: "ULS", Moment: designMu, Shear: designVu, Torsion: designTu, Axial: designPu,
		}},
		Span: design.Span{Length: designSpan, Support: material.Support(designSupport)},
	}
	req.Detailing.BarDiameter = designBar
	req.Detailing.Ductile = designDuctile
	for _, l := range designLevels {
		req.Serviceability.Levels = append(req.Serviceability.Levels, design.Level(strings.ToLower(strings.TrimSpace(l))))
	}
	return req, nil
}

func designRequests() ([]design.Request, error) {
	if designFile != "" {
		return design.LoadRequests(designFile)
	}
	req, err := requestFromFlags()
	if err != nil {
		return nil, err
	}
	return []design.Request{req}, nil
}

func runDesign(cmd *cobra.Command, args []string) error {
	reqs, err := designRequests()
	if err != nil {
		return err
	}
	e, err := newEngine()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	results := make([]*design.Result, 0, len(reqs))
	for _, req := range reqs {
		res, err := e.Design(req)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	if designPDF != "" && len(results) > 0 {
		if err := writePDF(e, results[0], designPDF); err != nil {
			return err
		}
		logger.Info("report exported", "file", designPDF, "id", results[0].ID)
	}

	if designJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		return enc.Encode(results)
	}

	failed := 0
	for i, res := range results {
		if err := printDesign(out, e, reqs[i], res); err != nil {
			return err
		}
		if res.Status != design.StatusPass {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d designs did not pass", failed, len(results))
	}
	return nil
}

func printDesign(out io.Writer, e *engine.Engine, req design.Request, res *design.Result) error {
	if err := report.WriteResult(out, res); err != nil {
		return err
	}
	if designShowTrace {
		if err := report.WriteTrace(out, "CLAUSE TRACE", e.Trace(res)); err != nil {
			return err
		}
	}
	if len(res.Cases) == 0 {
		return nil
	}

	// diagrams and suggestions follow the governing case
	gi := governingCase(res)
	c := res.Cases[gi]
	if c.Flexure.AstRequired > 0 {
		if err := report.WriteSuggestions(out, c.Flexure.AstRequired); err != nil {
			return err
		}
	}
	if !c.Feasible {
		return nil
	}

	if designShowDiagram || designExportFile != "" || designStrainFile != "" {
		block, err := e.StressBlock(res.Code, res.Materials)
		if err != nil {
			return err
		}
		data, err := diagram.FromCase(res, gi, block)
		if err != nil {
			return err
		}
		if designShowDiagram {
			fmt.Fprintln(out, diagram.ASCIISection(data))
		}
		if designExportFile != "" {
			if err := diagram.ExportSection(data, designExportFile); err != nil {
				return fmt.Errorf("error exporting diagram: %w", err)
			}
			fmt.Fprintf(out, "  ✓ Diagram exported to: %s\n", designExportFile)
		}
		if designStrainFile != "" {
			if err := diagram.ExportStrain(data, designStrainFile); err != nil {
				return fmt.Errorf("error exporting strain diagram: %w", err)
			}
			fmt.Fprintf(out, "  ✓ Strain diagram exported to: %s\n", designStrainFile)
		}
	}

	if designShowDiagram || designDeflection != "" {
		pts, err := e.Deflection(req, res, gi)
		if err != nil {
			// no span or no bars: the deflection diagram is optional
			logger.Debug("deflection diagram skipped", "label", res.Label, "reason", err)
			return nil
		}
		if designShowDiagram {
			fmt.Fprintln(out, diagram.ASCIIDeflection(pts, 60))
		}
		if designDeflection != "" {
			title := fmt.Sprintf("%s %s", res.Label, c.Name)
			if err := diagram.ExportDeflection(pts, strings.TrimSpace(title), designDeflection); err != nil {
				return fmt.Errorf("error exporting deflection diagram: %w", err)
			}
			fmt.Fprintf(out, "  ✓ Deflection diagram exported to: %s\n", designDeflection)
		}
	}
	fmt.Fprintln(out)
	return nil
}

// governingCase is the index of the case with the highest utilisation
func governingCase(res *design.Result) int {
	gi := 0
	for i, c := range res.Cases {
		if c.Utilisation > res.Cases[gi].Utilisation {
			gi = i
		}
	}
	return gi
}

func writePDF(e *engine.Engine, res *design.Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	meta := report.Meta{Project: designProject, Author: cfg.Report.Author}
	if err := report.WritePDF(f, res, e.Trace(res), meta); err != nil {
		f.Close()
		return fmt.Errorf("error writing report: %w", err)
	}
	return f.Close()
}
