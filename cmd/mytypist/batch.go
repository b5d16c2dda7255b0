package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/LordMirex/mytypist-prototype/pkg/archive"
	"github.com/LordMirex/mytypist-prototype/pkg/batch"
)

var (
	batchSet    []string
	batchBundle string
)

var batchCmd = &cobra.Command{
	Use:   "batch <template-id> [template-id...]",
	Short: "Generate one input set against several templates",
	Args:  cobra.MinimumNArgs(1),
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
		inputs, err := parseInputs(batchSet)
		if err != nil {
			return err
		}

		result, err := app.Batches.Run(cmd.Context(), batch.Request{
			TemplateIDs: ids,
			Inputs:      inputs,
		})
		if err != nil {
			return err
		}

		for _, item := range result.Items {
			if item.Err != nil {
				color.Red("  template %d: %v", item.TemplateID, item.Err)
				continue
			}
			color.Green("  template %d: %s", item.TemplateID, item.Document.FilePath)
		}

		summary := color.GreenString
		if result.Status == batch.StatusCompletedWithErrors {
			summary = color.YellowString
		}
		fmt.Println(summary("Batch %s: %s (%d/%d succeeded)",
			result.BatchID, result.Status, result.Succeeded, result.Total))

		if batchBundle != "" {
			data, name, err := app.Packager.BatchBundle(cmd.Context(), result.BatchID, batchBundle)
			if err != nil {
				return err
			}
			if err := os.WriteFile(name, data, 0o644); err != nil {
				return err
			}
			color.Green("Bundle written to %s", name)
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringArrayVar(&batchSet, "set", nil, "field value as name=value (repeatable)")
	batchCmd.Flags().StringVar(&batchBundle, "bundle", "",
		fmt.Sprintf("write a zip of the batch output (%s, %s or %s)",
			archive.FormatDocx, archive.FormatPDF, archive.FormatCombined))
}
