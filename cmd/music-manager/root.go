package main

import (
	"context"

	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. The returned context owns the
// logger; pass both to execute so the log file is closed however the
// command ends.
func newRootCommand() (*cobra.Command, *commandContext) {
	var configFlag string
	var logLevelFlag string
	var logFileFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFileFlag)

	rootCmd := &cobra.Command{
		Use:           "music-manager",
		Short:         "Clean up the tags of a music library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureSettings(cmd)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Settings file path (JSON or TOML)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFileFlag, "log-file", "", "Log file path; empty disables the log file")

	rootCmd.AddCommand(newCleanCommand(ctx))
	rootCmd.AddCommand(newExtractTagsCommand(ctx))
	rootCmd.AddCommand(newRulesCommand(ctx))
	rootCmd.AddCommand(newSignatureCommand(ctx))

	return rootCmd, ctx
}

// execute runs cmd and then closes the log file, also when the command
// failed or was cancelled.
func execute(ctx context.Context, cmd *cobra.Command, cc *commandContext) error {
	defer cc.close()
	return cmd.ExecuteContext(ctx)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
