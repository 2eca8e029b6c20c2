package actions

import (
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/runtime"
)

const logDateFormat = "2006-01-02 15:04"

// LogAction prints the last count commits of the current branch, newest first.
// A count of zero or less prints the whole history.
func LogAction(ctx *runtime.Context, count int) error {
	history, err := ctx.Commits.History(ctx, ctx.Repo, count)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		ctx.Splog.Info("No commits yet.")
		return nil
	}

	rows := make([][]string, 0, len(history))
	for _, c := range history {
		rows = append(rows, []string{
			c.ShortHash(),
			c.Author.When.Format(logDateFormat),
			c.Author.Name,
			c.Subject(),
		})
	}
	return output.Table(ctx.Splog.Writer(), []string{"Commit", "Date", "Author", "Subject"}, rows)
}
