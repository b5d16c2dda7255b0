package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mytypist "github.com/LordMirex/mytypist-prototype"
	"github.com/LordMirex/mytypist-prototype/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "mytypist",
	Short: "Template-driven document generation",
	Long:  "mytypist ingests DOCX templates, builds fill-in forms from their placeholders, and generates finished documents.",
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "mytypist.yml", "configuration file")

	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(templatesCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadApp builds the full application from the configured paths.
func loadApp() (*mytypist.App, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return mytypist.NewApp(cfg)
}
