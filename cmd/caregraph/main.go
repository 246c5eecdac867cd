package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/caregraph/caregraph/internal/compare"
	"github.com/caregraph/caregraph/internal/config"
	"github.com/caregraph/caregraph/internal/dataset"
	"github.com/caregraph/caregraph/internal/output"
	"github.com/caregraph/caregraph/internal/pathway"
	"github.com/caregraph/caregraph/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "caregraph",
	Short: "CareGraph health pathway simulator",
	Long:  "Forecasts probable future health conditions and their financial consequences from a structured patient profile.",
}

func newLogger() zerolog.Logger {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return logger
}

func loadEverything(cmd *cobra.Command) (*dataset.Dataset, config.Parameters, error) {
	dataDir, _ := cmd.Flags().GetString("data")
	paramsFile, _ := cmd.Flags().GetString("params")

	params := config.DefaultParameters()
	if paramsFile != "" {
		var err error
		params, err = config.LoadParameters(paramsFile)
		if err != nil {
			return nil, params, err
		}
	}

	logger := newLogger()
	data, err := dataset.Load(dataDir, params, logger)
	if err != nil {
		return nil, params, err
	}
	return data, params, nil
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [request-file]",
	Short: "Expand a patient profile into a care pathway graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, params, err := loadEverything(cmd)
		if err != nil {
			return err
		}

		parser := config.NewRequestParser(params)
		req, err := parser.LoadSimulationRequest(args[0])
		if err != nil {
			return err
		}

		builder := pathway.NewBuilder(data.Registry, data.Network, data.Costs, data.Interventions, params)
		graph := builder.BuildPathway(pathway.BuildInput{
			Profile:            req.Profile,
			Interventions:      req.Interventions,
			HorizonYears:       req.HorizonYears,
			SymptomConditions:  req.SymptomConditions,
			UnmappedConditions: req.UnmappedConditions,
		})

		format, _ := cmd.Flags().GetString("format")
		report, err := output.GenerateReport(graph, format)
		if err != nil {
			return err
		}
		fmt.Print(report)
		return nil
	},
}

var comparePlansCmd = &cobra.Command{
	Use:   "compare-plans [request-file]",
	Short: "Compare insurance plans over a fixed risk model",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, params, err := loadEverything(cmd)
		if err != nil {
			return err
		}

		parser := config.NewRequestParser(params)
		req, err := parser.LoadPlanCompareRequest(args[0])
		if err != nil {
			return err
		}

		builder := pathway.NewBuilder(data.Registry, data.Network, data.Costs, data.Interventions, params)
		engine := compare.NewCompareEngine(builder, data.Plans)
		set := engine.ComparePlans(pathway.BuildInput{
			Profile:       req.Profile,
			Interventions: req.Interventions,
			HorizonYears:  req.HorizonYears,
		}, req.PlanIDs)

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "console":
			fmt.Print((&compare.TableFormatter{}).FormatPlans(set))
		case "json":
			out, err := (&compare.JSONFormatter{Pretty: true}).FormatPlans(set)
			if err != nil {
				return err
			}
			fmt.Println(out)
		case "csv":
			out, err := (&compare.CSVFormatter{}).FormatPlans(set)
			if err != nil {
				return err
			}
			fmt.Print(out)
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}
		return nil
	},
}

var compareScenariosCmd = &cobra.Command{
	Use:   "compare-scenarios [request-file]",
	Short: "Compare intervention scenarios side by side",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, params, err := loadEverything(cmd)
		if err != nil {
			return err
		}

		parser := config.NewRequestParser(params)
		req, err := parser.LoadSimulationRequest(args[0])
		if err != nil {
			return err
		}

		scenarioFlags, _ := cmd.Flags().GetStringArray("scenario")
		scenarios := make([][]string, 0, len(scenarioFlags))
		for _, sf := range scenarioFlags {
			var set []string
			for _, name := range strings.Split(sf, ",") {
				if name = strings.TrimSpace(name); name != "" {
					set = append(set, name)
				}
			}
			scenarios = append(scenarios, set)
		}
		if len(scenarios) == 0 {
			scenarios = append(scenarios, req.Interventions)
		}

		builder := pathway.NewBuilder(data.Registry, data.Network, data.Costs, data.Interventions, params)
		engine := compare.NewCompareEngine(builder, data.Plans)
		result := engine.CompareScenarios(pathway.BuildInput{
			Profile:            req.Profile,
			HorizonYears:       req.HorizonYears,
			SymptomConditions:  req.SymptomConditions,
			UnmappedConditions: req.UnmappedConditions,
		}, scenarios)

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "console":
			fmt.Print((&compare.TableFormatter{}).FormatScenarios(result))
		case "json":
			out, err := (&compare.JSONFormatter{Pretty: true}).FormatScenarios(result)
			if err != nil {
				return err
			}
			fmt.Println(out)
		case "csv":
			out, err := (&compare.CSVFormatter{}).FormatScenarios(result)
			if err != nil {
				return err
			}
			fmt.Print(out)
		default:
			return fmt.Errorf("unsupported format: %s", format)
		}
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [request-file]",
	Short: "Validate a simulation request file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		paramsFile, _ := cmd.Flags().GetString("params")
		params := config.DefaultParameters()
		if paramsFile != "" {
			var err error
			params, err = config.LoadParameters(paramsFile)
			if err != nil {
				return err
			}
		}
		parser := config.NewRequestParser(params)
		if _, err := parser.LoadSimulationRequest(args[0]); err != nil {
			return err
		}
		fmt.Printf("Request file %s is valid\n", args[0])
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulation HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()

		cfg, err := config.LoadServerConfig()
		if err != nil {
			return err
		}

		params := config.DefaultParameters()
		if cfg.ParamsFile != "" {
			params, err = config.LoadParameters(cfg.ParamsFile)
			if err != nil {
				return err
			}
		}

		data, err := dataset.Load(cfg.DataDir, params, logger)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(data, params, logger)
		return srv.Start(ctx, ":"+cfg.Port)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{simulateCmd, comparePlansCmd, compareScenariosCmd} {
		cmd.Flags().String("data", "data", "Reference data directory")
		cmd.Flags().String("params", "", "Engine parameters YAML file")
		cmd.Flags().StringP("format", "f", "console", "Output format (console, json, csv)")
	}
	simulateCmd.Flags().Lookup("format").Usage = "Output format (console, json)"
	compareScenariosCmd.Flags().StringArray("scenario", nil, "Comma-separated intervention set; repeatable")
	validateCmd.Flags().String("params", "", "Engine parameters YAML file")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(comparePlansCmd)
	rootCmd.AddCommand(compareScenariosCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
