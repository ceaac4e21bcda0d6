package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/bookmarks/internal/app"
	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <bookmarks.yaml>",
		Short: "Import a Homepage bookmarks.yaml into the store",
		Long:  "Every entry becomes a bookmark titled after the entry and tagged with its category. URLs already stored are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := logger.New(cfg.LogLevel, cfg.PrettyLog)
			defer func() { _ = log.Sync() }()

			ctx := cmd.Context()
			backends, err := app.Connect(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer backends.Close(ctx)

			res, err := backends.Importer.ImportFile(ctx, args[0])
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(res, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
