package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/handiism/music-manager/internal/audio"
	"github.com/handiism/music-manager/internal/config"
	"github.com/handiism/music-manager/internal/library"
	"github.com/handiism/music-manager/internal/rules"
)

func newExtractTagsCommand(ctx *commandContext) *cobra.Command {
	var (
		location    string
		destination string
		rulesFile   string
		artwork     bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "extract-tags [location]",
		Short: "Export the tags of every file as JSON",
		Long: "Export the tags of every file under the location as JSON into a mirror of the\n" +
			"library tree. The destination defaults to the location followed by \"" + library.TagsOnlySuffix + "\".",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 && location == "" {
				location = args[0]
			}
			if location, err = config.ExpandPath(location); err != nil {
				return err
			}
			if destination, err = config.ExpandPath(destination); err != nil {
				return err
			}
			if artwork {
				settings.ExtractArtwork = true
			}

			var set *rules.Set
			if rulesFile != "" {
				if set, err = ctx.loadRules(cmd, rulesFile); err != nil {
					return fmt.Errorf("load rules: %w", err)
				}
			}
			logger, err := ctx.ensureLogger(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			manager := library.NewManager(settings, audio.NewStore(), set, logger, progressPrinter(out, verbose))

			report, err := manager.ExtractTags(cmd.Context(), location, destination)
			if report != nil && report.Files > 0 {
				root := location
				if root == "" {
					root = settings.LibraryLocation
				}
				printReport(out, "Extract summary", report, root)
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&location, "location", "l", "", "Library location (overrides settings)")
	cmd.Flags().StringVarP(&destination, "output", "o", "", "Destination directory")
	cmd.Flags().StringVarP(&rulesFile, "rules", "r", "", "Export tags as cleaned by these rules (files are not modified)")
	cmd.Flags().BoolVar(&artwork, "artwork", false, "Also save each file's front cover as JPEG")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show per-file progress")

	return cmd
}
