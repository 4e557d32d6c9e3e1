package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod  = "method"
	AttrPath    = "path"
	AttrStatus  = "status"
	AttrSource  = "source"
	AttrOutcome = "outcome"
)

// Source attempt outcomes.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)
