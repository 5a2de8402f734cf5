package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/music-manager/internal/rules"
)

func newRulesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Inspect tag rules",
	}
	cmd.AddCommand(newRulesListCommand(ctx))
	return cmd
}

func newRulesListCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [file]",
		Short: "Validate and print a rules file (the built-in rules by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			set, err := ctx.loadRules(cmd, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != "" {
				data, err := set.Encode(rules.Format(strings.ToLower(format)))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			rows := make([][]string, 0, set.Len())
			for i, r := range set.All() {
				rows = append(rows, []string{
					fmt.Sprint(i + 1),
					r.Label(),
					r.Subject,
					describeCondition(r),
					describeOperation(r),
					describeChain(r),
				})
			}
			fmt.Fprintln(out, renderTable(out,
				[]string{"#", "Name", "Subject", "Condition", "Operation", "Chain"},
				rows,
				[]columnAlignment{alignRight}))
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Print the rules encoded as json, yaml or toml instead of a table")

	return cmd
}

func describeCondition(r *rules.Rule) string {
	switch r.Condition {
	case rules.Empty, rules.NotEmpty:
		return r.Condition.String()
	}
	if r.ConditionalType == rules.Property {
		return fmt.Sprintf("%s field %s", r.Condition, r.Conditional)
	}
	return fmt.Sprintf("%s %q", r.Condition, r.Conditional)
}

func describeOperation(r *rules.Rule) string {
	if r.Operation != rules.Replace {
		return r.Operation.String()
	}
	if r.ReplacementType == rules.Property {
		return fmt.Sprintf("Replace with field %s", r.Replacement)
	}
	return fmt.Sprintf("Replace with %q", r.Replacement)
}

// describeChain renders the chain as "And Performers NotEmpty, And ...".
func describeChain(r *rules.Rule) string {
	var parts []string
	for link := r; link.ChainRule != nil; link = link.ChainRule {
		next := link.ChainRule
		parts = append(parts, fmt.Sprintf("%s %s %s", link.Chain, next.Subject, describeCondition(next)))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
