package cmd

import (
	"github.com/spf13/cobra"
)

var objectsAll bool

var objectsCmd = &cobra.Command{
	Use:   "objects",
	Short: "List the org's object types",
	Long: `Objects lists the object types of the connected org, filtered to
queryable and createable objects unless --all is given.

Example:
  sfnav objects --all`,
	Args: cobra.NoArgs,
	RunE: runObjects,
}

func init() {
	rootCmd.AddCommand(objectsCmd)
	objectsCmd.Flags().BoolVar(&objectsAll, "all", false,
		"Include system and non-createable objects")
}

func runObjects(cmd *cobra.Command, args []string) error {
	sess, _, cleanup, err := buildSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	line := "list"
	if objectsAll {
		line += " all"
	}
	return sess.Execute(cmd.Context(), line)
}
