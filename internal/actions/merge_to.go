package actions

import (
	"gitflow.dev/gitflow/internal/git"
	"gitflow.dev/gitflow/internal/mergeto"
	"gitflow.dev/gitflow/internal/output"
	"gitflow.dev/gitflow/internal/runtime"
)

// MergeToAction squashes the current branch and lands it on target.
func MergeToAction(ctx *runtime.Context, target string) error {
	unlock, err := ctx.Lock()
	if err != nil {
		return err
	}
	defer unlock()

	res, err := ctx.MergeTo.MergeTo(ctx, ctx.Repo, target)
	if err != nil {
		return err
	}

	switch res.Outcome {
	case mergeto.OutcomeUpToDate:
		ctx.Splog.Info("%s has nothing that %s lacks.", output.Branch(res.Source), output.Branch(res.Target))
	case mergeto.OutcomeConflicted:
		PrintConflictStatus(ctx.Splog, "applying "+res.Source+" to "+res.Target, res.Conflicts, "cherry-pick")
	default:
		ctx.Splog.Success("Squashed %d commit(s) of %s and applied them to %s as %s.",
			res.Collapsed, output.Branch(res.Source), output.Branch(res.Target), output.Hash(git.ShortHash(res.Picked)))
	}

	if !res.Restored {
		ctx.Splog.Warn("Still on %s; switch back with gitflow checkout %s once it is clean.", res.Target, res.Source)
	}
	return nil
}
