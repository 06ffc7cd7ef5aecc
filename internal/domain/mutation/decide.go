// Package mutation holds the optimistic-concurrency rules shared by every group-scoped write.
//
// Writers never carry version numbers. Each write re-reads the authoritative value inside the
// request and compares it with two things the client sends: the value it wants to store and the
// value it last saw (its baseline). Authorship breaks the tie: a user's own successive edits never
// conflict with each other, even from a stale baseline.
package mutation

// Decision is the outcome of reconciling a proposed write with the authoritative value.
type Decision int

const (
	// Skip means the intended value is already authoritative; nothing is written.
	Skip Decision = iota
	// Apply means the write proceeds.
	Apply
	// Conflict means someone else changed the value since the caller's baseline.
	Conflict
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case Apply:
		return "apply"
	case Conflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// Observed is the authoritative state of one field as read at decision time.
type Observed[T any] struct {
	Value    T
	AuthorID *int64
	// Exists is false when the field was never written; Value then holds its zero reading.
	Exists bool
}

// Proposal is a caller's intended write.
type Proposal[T any] struct {
	Intended T
	Baseline *T
	CallerID int64
	// Force skips the baseline and authorship checks. Used only after the caller saw a conflict.
	Force bool
}

// Decide applies the write rules in order: no-op, forced overwrite, clean apply, conflict.
//
// Without a baseline the write applies only when the field was never written or the caller wrote
// it last.
func Decide[T any](current Observed[T], proposal Proposal[T], equal func(a, b T) bool) Decision {
	if equal(proposal.Intended, current.Value) {
		return Skip
	}
	if proposal.Force {
		return Apply
	}
	if current.AuthorID != nil && *current.AuthorID == proposal.CallerID {
		return Apply
	}
	if proposal.Baseline == nil {
		if !current.Exists {
			return Apply
		}
		return Conflict
	}
	if equal(*proposal.Baseline, current.Value) {
		return Apply
	}
	return Conflict
}
