package cmd

import (
	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <object> <id>",
	Short: "Fetch one record by ID",
	Long: `Get fetches a single record with all its accessible fields.

Example:
  sfnav get Account 001XX000003DHPh`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	sess, _, cleanup, err := buildSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return sess.Execute(cmd.Context(), "get "+shellquote.Join(args...))
}
