package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <template-id> [template-id...]",
	Short: "Show the merged field catalog for one or more templates",
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

		views, err := app.Templates.MergedFields(cmd.Context(), ids)
		if err != nil {
			return err
		}
		for _, v := range views {
			required := ""
			if v.Required {
				required = " (required)"
			}
			fmt.Printf("%-24s %-8s %s%s\n", v.BaseName, v.Type, v.DisplayName, required)
			if v.HelpText != "" {
				fmt.Printf("%24s   %s\n", "", v.HelpText)
			}
			if len(v.Options) > 0 {
				fmt.Printf("%24s   options: %s\n", "", strings.Join(v.Options, ", "))
			}
		}
		return nil
	},
}

func parseTemplateIDs(args []string) ([]uint, error) {
	var ids []uint
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid template id %q", part)
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
