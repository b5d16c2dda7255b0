package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	mytypist "github.com/LordMirex/mytypist-prototype"
	"github.com/LordMirex/mytypist-prototype/pkg/convert"
	"github.com/LordMirex/mytypist-prototype/pkg/fields"
	"github.com/LordMirex/mytypist-prototype/pkg/pipeline"
)

var (
	generateSet         []string
	generateInteractive bool
	generatePDF         bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <template-id>",
	Short: "Generate a document from a template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ids, err := parseTemplateIDs(args)
		if err != nil {
			return err
		}
		id := ids[0]

		inputs, err := parseInputs(generateSet)
		if err != nil {
			return err
		}

		if generateInteractive {
			views, err := app.Templates.Fields(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := promptFields(views, inputs); err != nil {
				return err
			}
		}

		doc, err := app.Pipeline.Generate(cmd.Context(), pipeline.Request{
			TemplateID: id,
			Inputs:     inputs,
		})
		if err != nil {
			var verr *pipeline.ValidationError
			if errors.As(err, &verr) {
				color.Red("Inputs rejected:")
				for _, msg := range verr.Messages {
					fmt.Println("  -", msg)
				}
				return fmt.Errorf("validation failed")
			}
			return err
		}

		outPath := filepath.Join(app.Config.GeneratedDir, doc.FilePath)
		color.Green("Generated %s", outPath)

		if generatePDF {
			pdfPath, err := convertToPDF(app, cmd, outPath)
			if err != nil {
				return err
			}
			color.Green("Converted %s", pdfPath)
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().StringArrayVar(&generateSet, "set", nil, "field value as name=value (repeatable)")
	generateCmd.Flags().BoolVarP(&generateInteractive, "interactive", "i", false, "prompt for missing field values")
	generateCmd.Flags().BoolVar(&generatePDF, "pdf", false, "also convert the result to PDF")
}

func parseInputs(pairs []string) (map[string]string, error) {
	inputs := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected name=value", pair)
		}
		inputs[strings.TrimSpace(name)] = value
	}
	return inputs, nil
}

// promptFields asks for every field not already supplied with --set. Option
// fields become selection prompts; everything else is free text with the
// field's help and default.
func promptFields(views []fields.FieldView, inputs map[string]string) error {
	for _, v := range views {
		if _, ok := inputs[v.BaseName]; ok {
			continue
		}

		var prompt survey.Prompt
		if len(v.Options) > 0 {
			prompt = &survey.Select{
				Message: v.DisplayName + ":",
				Options: v.Options,
				Help:    v.HelpText,
			}
		} else {
			prompt = &survey.Input{
				Message: v.DisplayName + ":",
				Default: v.DefaultValue,
				Help:    v.HelpText,
			}
		}

		var answer string
		if err := survey.AskOne(prompt, &answer); err != nil {
			return err
		}
		inputs[v.BaseName] = answer
	}
	return nil
}

func convertToPDF(app *mytypist.App, cmd *cobra.Command, docxPath string) (string, error) {
	converter, err := app.Converters.Get("external")
	if err != nil {
		return "", err
	}
	pdfPath, err := converter.Convert(cmd.Context(), docxPath)
	if errors.Is(err, convert.ErrUnavailable) {
		return "", fmt.Errorf("PDF output is unavailable on this machine, keep the DOCX: %w", err)
	}
	return pdfPath, err
}
