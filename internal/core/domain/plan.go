package domain

import "path"

// ApplyMode selects how install actions touch the filesystem.
type ApplyMode uint8

const (
	// ModeApply performs the copy.
	ModeApply ApplyMode = iota
	// ModeDryRun reports what would change without touching anything.
	ModeDryRun
	// ModeVerify is a dry run whose pending changes count as drift.
	ModeVerify
)

func (m ApplyMode) String() string {
	switch m {
	case ModeApply:
		return "apply"
	case ModeDryRun:
		return "dry-run"
	case ModeVerify:
		return "verify"
	default:
		return "unknown"
	}
}

// Outcome is the result of applying one install action.
type Outcome uint8

const (
	// OutcomeUnchanged means the destination already held the source content.
	OutcomeUnchanged Outcome = iota
	// OutcomeCreated means the destination did not exist.
	OutcomeCreated
	// OutcomeUpdated means the destination existed with different content.
	OutcomeUpdated
	// OutcomeLinked means a symlink was (or would be) created.
	OutcomeLinked
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	case OutcomeLinked:
		return "linked"
	default:
		return "unchanged"
	}
}

// FileMatch is a source file selected by an install rule.
type FileMatch struct {
	Source string // absolute path of the source file
	Rel    string // destination path relative to the rule destination, forward slashes
	Rule   int    // index of the rule that produced the match
}

// InstallAction copies one file.
type InstallAction struct {
	Source      string
	Destination string
	// LinkTarget is set when the source symlink is recreated instead of copied.
	LinkTarget string
	Rule       int
}

// Override records an action dropped because a later one targets the same destination.
type Override struct {
	Destination string
	Dropped     string
	Winner      string
	// WinnerJob is set when the winning action belongs to another job.
	WinnerJob JobID
}

// InstallPlan is the ordered set of actions of one job.
type InstallPlan struct {
	Job       JobID
	Actions   []InstallAction
	Overrides []Override
}

// NewInstallPlan resolves duplicate destinations: the last action wins and keeps its position.
func NewInstallPlan(job JobID, actions []InstallAction) InstallPlan {
	last := make(map[string]int, len(actions))
	for i, a := range actions {
		last[a.Destination] = i
	}
	plan := InstallPlan{Job: job, Actions: make([]InstallAction, 0, len(last))}
	for i, a := range actions {
		winner := last[a.Destination]
		if winner != i {
			if actions[winner].Source != a.Source {
				plan.Overrides = append(plan.Overrides, Override{
					Destination: a.Destination,
					Dropped:     a.Source,
					Winner:      actions[winner].Source,
				})
			}
			continue
		}
		plan.Actions = append(plan.Actions, a)
	}
	return plan
}

// ResolveAcrossPlans applies last-wins to plans that run one after another on the
// same install root. An action whose destination a later plan also writes is
// dropped from its own plan.
func ResolveAcrossPlans(plans []*InstallPlan) {
	type owner struct {
		plan   int
		source string
	}
	owners := make(map[string]owner)
	for i, p := range plans {
		for _, a := range p.Actions {
			owners[a.Destination] = owner{plan: i, source: a.Source}
		}
	}

	for i, p := range plans {
		kept := p.Actions[:0]
		for _, a := range p.Actions {
			w := owners[a.Destination]
			if w.plan == i {
				kept = append(kept, a)
				continue
			}
			if w.source != a.Source {
				p.Overrides = append(p.Overrides, Override{
					Destination: a.Destination,
					Dropped:     a.Source,
					Winner:      w.source,
					WinnerJob:   plans[w.plan].Job,
				})
			}
		}
		p.Actions = kept
	}
}

// JoinDestination joins a rule destination and a match path below an install root.
func JoinDestination(destination, rel string) string {
	return NormalizePath(path.Join(NormalizePath(destination), rel))
}

// InstallReport counts the outcomes of applying a plan.
type InstallReport struct {
	Created   int
	Updated   int
	Unchanged int
	Linked    int
	// Changed lists destinations whose outcome was not Unchanged.
	Changed []string
}

// Record adds one outcome to the report.
func (r *InstallReport) Record(dest string, o Outcome) {
	switch o {
	case OutcomeCreated:
		r.Created++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeLinked:
		r.Linked++
	default:
		r.Unchanged++
		return
	}
	r.Changed = append(r.Changed, dest)
}

// Changes returns the number of actions that modified (or would modify) the tree.
func (r *InstallReport) Changes() int {
	return r.Created + r.Updated + r.Linked
}
