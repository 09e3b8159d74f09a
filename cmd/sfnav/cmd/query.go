package cmd

import (
	"strings"

	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <soql>",
	Short: "Run a raw SOQL query",
	Long: `Query executes a SOQL statement verbatim and prints the rows.

Example:
  sfnav query "SELECT Id, Name FROM Account WHERE Industry = 'Automotive' LIMIT 10"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	sess, _, cleanup, err := buildSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	return sess.Execute(cmd.Context(), "query "+strings.Join(args, " "))
}
