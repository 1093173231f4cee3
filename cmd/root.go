package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	_ "github.com/alexiusacademia/rcbeam/internal/codes/all"
	"github.com/alexiusacademia/rcbeam/internal/config"
	"github.com/alexiusacademia/rcbeam/internal/engine"
	"github.com/alexiusacademia/rcbeam/internal/logging"
	"github.com/alexiusacademia/rcbeam/internal/version"
)

var (
	cfgFile string
	v       *viper.Viper = config.New()
	cfg     *config.Config
	logger  = logging.Discard()
)

var rootCmd = &cobra.Command{
	Use:   "rcbeam",
	Short: "Reinforced Concrete Beam Design Engine",
	Long: `rcbeam - Reinforced Concrete Beam Design Engine

Designs reinforced concrete beams to more than one national code and
traces every result back to the clauses that produced it.

Codes:
  IS456     IS 456:2000 with IS 13920:2016 ductile detailing
  NSCP2015  NSCP 2015 Volume 1 (ACI 318-14 family)
  ACI318    ACI 318-14, same implementation as NSCP2015

Each design covers:
  - Flexure (singly, doubly reinforced and flanged sections)
  - Shear and torsion with stirrup design
  - Detailing (bars, development, laps, hooks, ductile rules)
  - Serviceability (span/depth, deflection, crack control)

Configuration is read from --config, a .env file and RCBEAM_*
environment variables, e.g. RCBEAM_ENGINE_DEFAULT_CODE=NSCP2015.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd.ErrOrStderr())
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintf(out, "  ║   rcbeam v%-48s║\n", version.Version)
		fmt.Fprintln(out, "  ║   Reinforced Concrete Beam Design Engine                  ║")
		fmt.Fprintln(out, "  ║                                                           ║")
		fmt.Fprintln(out, "  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Features:")
		fmt.Fprintln(out, "    • IS 456, NSCP 2015 and ACI 318 beam design")
		fmt.Fprintln(out, "    • Clause-by-clause trace of every calculation")
		fmt.Fprintln(out, "    • Batch design from YAML, JSON or Excel workbooks")
		fmt.Fprintln(out, "    • PDF reports, section and deflection diagrams")
		fmt.Fprintln(out, "    • HTTP API with Prometheus metrics")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  Use 'rcbeam --help' to see available commands.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "  ─────────────────────────────────────────────────────────────")
		fmt.Fprintf(out, "  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Fprintln(out)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (yaml, json or toml)")
	pf.String("log-level", "", "Log level: debug, info, warn, error")
	pf.String("log-format", "", "Log format: text or json")
	pf.String("code", "", "Design code for requests that name none (default IS456)")
	pf.Int("workers", 0, "Batch workers (0 = one per CPU)")
	pf.Bool("strict-clauses", false, "Fail when a routine cites an unknown clause")

	for key, flag := range map[string]string{
		"log.level":           "log-level",
		"log.format":          "log-format",
		"engine.default_code": "code",
		"engine.workers":      "workers",
		"clauses.strict":      "strict-clauses",
	} {
		if err := v.BindPFlag(key, pf.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

// setup loads configuration and installs the logger. Logs go to stderr so
// that --json output stays clean.
func setup(stderr io.Writer) error {
	if err := config.LoadEnv(); err != nil {
		return err
	}
	c, err := config.Load(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	logger = logging.New(stderr, cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return nil
}

// newEngine builds an engine from the loaded configuration
func newEngine() (*engine.Engine, error) {
	return engine.New(
		engine.WithLogger(logger),
		engine.WithWorkers(cfg.Engine.Workers),
		engine.WithDefaultCode(cfg.Engine.DefaultCode),
		engine.WithStrictClauses(cfg.Clauses.Strict),
	)
}
