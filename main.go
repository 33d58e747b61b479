package main

import (
	"fmt"
	"log"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/valyala/fasthttp"

	"affordability-engine/internal/afford"
	"affordability-engine/internal/catalog"
	"affordability-engine/internal/config"
	"affordability-engine/internal/engine"
	"affordability-engine/internal/handler"
	"affordability-engine/internal/model"
)

// flags overriding the environment for one invocation.
type globalFlags struct {
	dataDir     string
	supplyFile  string
	catalogFile string
	years       string
	scenarios   string
}

func main() {
	var gf globalFlags

	rootCmd := &cobra.Command{
		Use:          "affordability-engine",
		Short:        "Housing demand from employer headcount and mortgage affordability",
		SilenceUsage: true,
	}
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&gf.dataDir, "data-dir", "", "company data directory (AFFORD_DATA_DIR)")
	pf.StringVar(&gf.supplyFile, "supply", "", "supply pipeline file (AFFORD_SUPPLY_FILE)")
	pf.StringVar(&gf.catalogFile, "catalog", "", "YAML catalog overlay (AFFORD_CATALOG_FILE)")
	pf.StringVar(&gf.years, "years", "", `years, "2025-2029" or "2025,2027" (AFFORD_YEARS)`)
	pf.StringVar(&gf.scenarios, "scenarios", "", "comma separated income scenarios (AFFORD_SCENARIOS)")

	rootCmd.AddCommand(serveCmd(&gf))
	rootCmd.AddCommand(overviewCmd(&gf))
	rootCmd.AddCommand(demandCmd(&gf))
	rootCmd.AddCommand(lookupCmd(&gf))
	rootCmd.AddCommand(validateCmd(&gf))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration, loads the catalog and builds the engine.
func setup(gf *globalFlags) (*config.Config, *engine.Engine, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if gf.dataDir != "" {
		cfg.DataDir = gf.dataDir
	}
	if gf.supplyFile != "" {
		cfg.SupplyFile = gf.supplyFile
	}
	if gf.catalogFile != "" {
		cfg.CatalogFile = gf.catalogFile
	}
	if gf.years != "" {
		if cfg.Years, err = config.ParseYears(gf.years); err != nil {
			return nil, nil, fmt.Errorf("--years: %w", err)
		}
	}
	if gf.scenarios != "" {
		if cfg.Scenarios, err = config.ParseScenarios(gf.scenarios); err != nil {
			return nil, nil, fmt.Errorf("--scenarios: %w", err)
		}
	}
	supplyFile, explicit := cfg.SupplyPath()
	if _, err := os.Stat(supplyFile); err != nil && !explicit {
		supplyFile = ""
	}

	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, nil, err
	}
	return cfg, engine.New(cat, cfg.DataDir, supplyFile), nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(out))
	return err
}

func serveCmd(gf *globalFlags) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demand pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, e, err := setup(gf)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			h := handler.New(e, cfg.Years, cfg.Scenarios)

			log.Printf("Affordability engine starting on port %s (data: %s)", cfg.Port, cfg.DataDir)
			if err := fasthttp.ListenAndServe(":"+cfg.Port, h.Route); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "HTTP server port (PORT)")
	return cmd
}

func overviewCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "overview",
		Short: "Print portfolio demand and supply for the configured years and scenarios",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, e, err := setup(gf)
			if err != nil {
				return err
			}
			resp, err := e.Overview(&model.OverviewRequest{Years: cfg.Years, Scenarios: cfg.Scenarios})
			if err != nil {
				return err
			}
			if err := printJSON(resp); err != nil {
				return err
			}
			if resp.CalculationMetadata.CalculationOutcome == model.OutcomeFailure {
				return fmt.Errorf("validation failed with %d message(s)", len(resp.Messages))
			}
			return nil
		},
	}
}

func demandCmd(gf *globalFlags) *cobra.Command {
	var (
		year      int
		scenario  string
		rateLabel string
	)

	cmd := &cobra.Command{
		Use:   "demand [company]",
		Short: "Trace band counts, lookup and demand for one company",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			_, e, err := setup(gf)
			if err != nil {
				return err
			}
			detail, err := e.Detail(&model.DemandRequest{
				Company:   args[0],
				Year:      year,
				Scenario:  model.IncomeScenario(scenario),
				RateLabel: rateLabel,
			})
			if err != nil {
				return err
			}
			if err := printJSON(detail); err != nil {
				return err
			}
			if detail.CalculationMetadata.CalculationOutcome == model.OutcomeFailure {
				return fmt.Errorf("validation failed for %s", args[0])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 2025, "projection year")
	cmd.Flags().StringVar(&scenario, "scenario", string(model.ScenarioFull), "income scenario (QI_base or QI_full)")
	cmd.Flags().StringVar(&rateLabel, "rate", "", "restrict to one rate label, e.g. FHA_6.15")
	return cmd
}

func lookupCmd(gf *globalFlags) *cobra.Command {
	var rateLabel string

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Print the affordability lookup of the active catalog",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			_, e, err := setup(gf)
			if err != nil {
				return err
			}
			rows := e.Lookup()
			if rateLabel != "" {
				if rows = afford.ForRate(rows, rateLabel); len(rows) == 0 {
					return fmt.Errorf("%w: %q", engine.ErrUnknownRate, rateLabel)
				}
			}
			return printJSON(rows)
		},
	}

	cmd.Flags().StringVar(&rateLabel, "rate", "", "restrict to one rate label")
	return cmd
}

func validateCmd(gf *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check company files in the data directory before a run",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, e, err := setup(gf)
			if err != nil {
				return err
			}
			report, err := e.Validate(nil)
			if err != nil {
				return err
			}
			log.Printf("Validated %d file(s) in %s: %d error(s), %d warning(s)",
				report.FilesChecked, cfg.DataDir, report.Errors, report.Warnings)
			if err := printJSON(report); err != nil {
				return err
			}
			if report.HasErrors() {
				return fmt.Errorf("validation found %d error(s)", report.Errors)
			}
			return nil
		},
	}
}
