package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var templatesAll bool

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		list, err := app.Templates.List(cmd.Context(), !templatesAll)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No templates.")
			return nil
		}
		for _, tpl := range list {
			status := color.GreenString("active")
			if !tpl.Active {
				status = color.YellowString("paused")
			}
			fmt.Printf("%4d  %-30s %-12s %s\n", tpl.ID, tpl.Name, tpl.Type, status)
		}
		return nil
	},
}

func init() {
	templatesCmd.Flags().BoolVar(&templatesAll, "all", false, "include paused templates")
}
