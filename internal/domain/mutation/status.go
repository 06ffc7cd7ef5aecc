package mutation

// Status is reported to clients for writes that did not fail.
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
)
