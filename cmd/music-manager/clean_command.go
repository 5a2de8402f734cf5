package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/music-manager/internal/audio"
	"github.com/handiism/music-manager/internal/library"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var (
		location     string
		rulesFile    string
		noUpdateTags bool
		jobs         int
		verbose      bool
	)

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Apply the tag rules to every file in the library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings(cmd)
			if err != nil {
				return err
			}
			if location != "" {
				settings.LibraryLocation = location
			}
			if noUpdateTags {
				settings.UpdateTags = false
			}
			if jobs > 0 {
				settings.MaxConcurrentFiles = jobs
			}

			set, err := ctx.loadRules(cmd, rulesFile)
			if err != nil {
				return fmt.Errorf("load rules: %w", err)
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			manager := library.NewManager(settings, audio.NewStore(), set, logger, progressPrinter(out, verbose))

			report, err := manager.Clean(cmd.Context())
			if report != nil && report.Files > 0 {
				title := "Clean summary"
				if !settings.UpdateTags {
					title += " (tags not written)"
				}
				printReport(out, title, report, settings.LibraryLocation)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Library location (overrides settings)")
	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Rules file (JSON, YAML or TOML)")
	cmd.Flags().BoolVarP(&noUpdateTags, "no-update-tags", "n", false, "Report changes without writing tags")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Files processed concurrently (overrides settings)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file progress")

	return cmd
}
