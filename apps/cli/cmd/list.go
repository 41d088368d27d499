package cmd

import (
	"fmt"
	"strings"

	"github.com/abdul-hamid-achik/bookspec/packages/scenarios"
	"github.com/spf13/cobra"
)

var listTagsFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available scenarios",
	Long: `List every scenario with its tags and description.

Examples:
  bookspec list
  bookspec list --tags schema,model`,
	Args: cobra.NoArgs,
	RunE: listCommand,
}

func init() {
	listCmd.Flags().StringVarP(&listTagsFlag, "tags", "t", "", "Only list scenarios with one of these tags (comma-separated)")
}

func listCommand(cmd *cobra.Command, args []string) error {
	tags := splitList(listTagsFlag)

	for _, s := range scenarios.All() {
		if len(tags) > 0 && !hasAnyOf(s, tags) {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", s.Name)
		fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", s.Description)
		if len(s.Tags) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "    tags: %s\n", strings.Join(s.Tags, ", "))
		}
	}

	return nil
}

func hasAnyOf(s scenarios.Scenario, tags []string) bool {
	for _, t := range tags {
		if s.HasTag(t) {
			return true
		}
	}
	return false
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
