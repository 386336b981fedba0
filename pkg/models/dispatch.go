package models

// ActionResult records the outcome of a single action run during dispatch.
// Err is nil on success; failed actions never abort the remaining ones.
type ActionResult struct {
	RuleID string
	Action ActionType
	Output any
	Err    error
}

// DispatchResult summarizes one ProcessTrigger call for the caller to log.
type DispatchResult struct {
	Trigger TriggerType
	Matched int
	Results []ActionResult
}

// Failed counts the actions that returned an error.
func (d DispatchResult) Failed() int {
	failed := 0

	for _, result := range d.Results {
		if result.Err != nil {
			failed++
		}
	}

	return failed
}
