package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/akakileti/nestegg/internal/calculation"
	"github.com/akakileti/nestegg/internal/config"
	"github.com/akakileti/nestegg/internal/output"
	"github.com/akakileti/nestegg/internal/server"
	"github.com/akakileti/nestegg/internal/tui"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "nestegg",
	Short: "Retirement savings projection CLI",
	Long:  "Projects savings account balances through accumulation and drawdown under pessimistic, average and optimistic growth/inflation bands",
}

var projectCmd = &cobra.Command{
	Use:   "project [plan-file]",
	Short: "Run a savings projection",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		plan, err := parser.LoadFromFile(args[0])
		if err != nil {
			log.Fatal(err)
		}

		engine := calculation.NewProjectionEngine()
		debugMode, _ := cmd.Flags().GetBool("debug")
		if debugMode {
			engine.SetLogger(simpleCLILogger{})
		}

		result, err := engine.RunProjection(context.Background(), plan)
		if err != nil {
			log.Fatal(err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		if err := output.GenerateReport(os.Stdout, result, outputFormat); err != nil {
			log.Fatal(err)
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [plan-file]",
	Short: "Validate a plan file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Plan file %s is valid\n", args[0])
	},
}

var exampleCmd = &cobra.Command{
	Use:   "example [output-file]",
	Short: "Write an example plan file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		parser := config.NewInputParser()
		plan := parser.CreateExamplePlan()
		if err := config.SavePlan(plan, args[0]); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("Example plan written to %s\n", args[0])
	},
}

var chartCmd = &cobra.Command{
	Use:   "chart [plan-file]",
	Short: "Open an interactive projection chart",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tui.Run(args[0]); err != nil {
			log.Fatal(err)
		}
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the projection API over HTTP",
	Run: func(cmd *cobra.Command, args []string) {
		addr, _ := cmd.Flags().GetString("addr")
		srv := server.New(simpleCLILogger{})
		if err := srv.ListenAndServe(addr); err != nil {
			log.Fatal(err)
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(os.Stdout, "nestegg %s (commit %s, built %s)\n", version, commit, date)
		if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
			fmt.Fprintln(os.Stdout, "go:", bi.GoVersion)
		}
	},
}

func init() {
	projectCmd.Flags().StringP("format", "f", "console", "Output format (console, csv, json)")
	projectCmd.Flags().Bool("debug", false, "Enable debug output for detailed calculations")
	serveCmd.Flags().String("addr", ":8080", "Listen address")

	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
