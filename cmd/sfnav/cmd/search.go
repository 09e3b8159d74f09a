package cmd

import (
	"fmt"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var (
	searchFields string
)

var searchCmd = &cobra.Command{
	Use:   "search <object> <text>",
	Short: "Search records of one object type",
	Long: `Search runs a full-text search over the given object type. When the
full-text index has no match, an exact-match name query runs instead.

Example:
  sfnav search Account "Axalta Coating" --fields Id,Name,Phone --limit 50`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVar(&searchFields, "fields", "",
		"Comma-separated list of fields to display")
}

func runSearch(cmd *cobra.Command, args []string) error {
	sess, _, cleanup, err := buildSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	line := "search " + shellquote.Join(args...)
	if searchFields != "" {
		line += " --fields " + searchFields
	}
	if searchLimit > 0 {
		line += fmt.Sprintf(" --limit %d", searchLimit)
	}
	return sess.Execute(cmd.Context(), line)
}
