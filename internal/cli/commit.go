package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"gitflow.dev/gitflow/internal/actions"
	"gitflow.dev/gitflow/internal/cli/helpers"
	"gitflow.dev/gitflow/internal/runtime"
	"gitflow.dev/gitflow/internal/utils"
)

// newCommitCmd creates the commit command
func newCommitCmd() *cobra.Command {
	var (
		amend  bool
		push   bool
		edit   bool
		kind   string
		source string
	)

	cmd := &cobra.Command{
		Use:     "commit [message...]",
		Aliases: []string{"c"},
		Short:   "Stage everything and commit it with a conventional message",
		Long: `Stage every change and commit it as "<type>(#<source>): <message>".

A message of "-" is read from standard input. The type is asked for when
missing and a terminal is attached. --amend rewrites the last commit, keeping
its message unless a new one is given. --push uploads the branch afterwards; a
failed upload is reported without undoing the commit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				message := strings.Join(args, " ")
				if message == "-" {
					var err error
					if message, err = utils.ReadFromStdin(); err != nil {
						return err
					}
				}
				return actions.CommitAction(ctx, actions.CommitOptions{
					Message: message,
					Type:    kind,
					Source:  source,
					Amend:   amend,
					Push:    push,
					Edit:    edit,
				})
			})
		},
	}

	cmd.Flags().BoolVar(&amend, "amend", false, "Amend the last commit")
	cmd.Flags().BoolVarP(&push, "push", "p", false, "Push after committing")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Write the message in your editor")
	cmd.Flags().StringVarP(&kind, "type", "t", "", "Conventional commit type (feat, fix, ...)")
	cmd.Flags().StringVarP(&source, "source", "s", "", "Issue or ticket id")

	return cmd
}
