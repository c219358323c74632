// apidoc renders API documentation to PDF, serves the export API, and
// inspects the PDFs it produces.
//
// Usage:
//
//	apidoc serve [--addr :8080]
//	apidoc export [--engine native|browser] [-o out.pdf] <doc.json|collection.json>...
//	apidoc import [--uid <collection>] [collection.json]
//	apidoc inspect info|text <file.pdf>
//	apidoc describe --endpoint /users --method GET
//	apidoc version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/porticus-lab/go-apidoc-pdf/cmd/apidoc/commands"
	"github.com/porticus-lab/go-apidoc-pdf/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "apidoc",
	Short: "API documentation to PDF",
	Long: `Render API documentation (normalized documents or Postman collections)
to paginated PDF files, from the command line or over HTTP.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (YAML)")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (json, text)")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log.format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())
	rootCmd.AddCommand(commands.NewInspectCommand())
	rootCmd.AddCommand(commands.NewDescribeCommand())
}

func initConfig() {
	if err := config.Setup(viper.GetViper(), viper.GetString("config")); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
