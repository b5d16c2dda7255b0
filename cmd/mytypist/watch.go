package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var watchType string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Ingest templates dropped into the inbox directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := loadApp()
		if err != nil {
			return err
		}
		defer app.Close()

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		err = app.Watch(ctx, watchType)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchType, "type", "letter", "template type for ingested files")
}
