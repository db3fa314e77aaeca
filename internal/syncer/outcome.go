package syncer

import "fmt"

const (
	resultLineTemplateConstant     = "SYNC_RESULT outcome=%s dry_run=%t from=%s to=%s"
	emptyCommitPlaceholderConstant = "-"
)

// OutcomeKind names one member of the closed set of sync classifications.
type OutcomeKind string

// Sync outcome classifications.
const (
	OutcomeUpToDate      OutcomeKind = "up_to_date"
	OutcomeFastForwarded OutcomeKind = "fast_forwarded"
	OutcomeDiverged      OutcomeKind = "diverged"
	OutcomeDirty         OutcomeKind = "dirty"
	OutcomeNeedsPush     OutcomeKind = "needs_push"
	OutcomeConflict      OutcomeKind = "conflict"
	OutcomeMissingRemote OutcomeKind = "missing_remote"
)

// Outcome is the single classification produced per sync invocation.
// FromCommit and ToCommit are populated only for fast-forward outcomes.
type Outcome struct {
	Kind       OutcomeKind
	DryRun     bool
	FromCommit string
	ToCommit   string
}

// RenderResultLine produces the one machine-parseable summary line emitted per
// invocation. Commit fields render as "-" when not applicable.
func RenderResultLine(outcome Outcome) string {
	return fmt.Sprintf(
		resultLineTemplateConstant,
		outcome.Kind,
		outcome.DryRun,
		commitOrPlaceholder(outcome.FromCommit),
		commitOrPlaceholder(outcome.ToCommit),
	)
}

func commitOrPlaceholder(commitIdentifier string) string {
	if len(commitIdentifier) == 0 {
		return emptyCommitPlaceholderConstant
	}
	return commitIdentifier
}
