package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LordMirex/mytypist-prototype/pkg/template"
)

var (
	ingestName        string
	ingestType        string
	ingestDescription string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <file.docx>",
	Short: "Upload a template and extract its field catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		path := args[0]
		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		name := ingestName
		if name == "" {
			base := filepath.Base(path)
			name = strings.TrimSuffix(base, filepath.Ext(base))
		}

		tpl, warning, err := app.Templates.Upload(cmd.Context(), template.UploadRequest{
			Name:        name,
			Type:        ingestType,
			Description: ingestDescription,
			FileName:    filepath.Base(path),
			Raw:         raw,
		})
		if err != nil {
			return err
		}

		color.Green("Template %d ingested: %s (%s)", tpl.ID, tpl.Name, tpl.Type)
		if warning != "" {
			color.Yellow("Warning: %s", warning)
		}

		views, err := app.Templates.Fields(cmd.Context(), tpl.ID)
		if err != nil {
			return err
		}
		fmt.Printf("%d field(s):\n", len(views))
		for _, v := range views {
			line := fmt.Sprintf("  %-24s %-8s %s", v.BaseName, v.Type, v.DisplayName)
			if len(v.Options) > 0 {
				line += " [" + strings.Join(v.Options, ", ") + "]"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestName, "name", "", "template name (defaults to the file name)")
	ingestCmd.Flags().StringVar(&ingestType, "type", "letter", "template type (letter, affidavit, ...)")
	ingestCmd.Flags().StringVar(&ingestDescription, "description", "", "template description")
}
