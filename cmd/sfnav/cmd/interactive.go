package cmd

import (
	"errors"
	"io"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"
)

func runInteractive(cmd *cobra.Command, args []string) error {
	sess, out, cleanup, err := buildSession(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	out.Infof("Type help for commands, exit to leave. Tab completes.")

	for !sess.Done() {
		var line string
		prompt := &survey.Input{
			Message: strings.TrimSuffix(sess.Prompt(), " "),
			Suggest: func(toComplete string) []string {
				return sess.Completions(toComplete)
			},
		}
		if err := survey.AskOne(prompt, &line); err != nil {
			if errors.Is(err, terminal.InterruptErr) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		if err := sess.Execute(cmd.Context(), line); err != nil {
			out.Errorf("%v", err)
		}
	}
	return nil
}
