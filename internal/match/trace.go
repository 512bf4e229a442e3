package match

import "trimatch/internal/domain"

// detailCategory is the trace detail key carrying the review category a FAIL
// entry contributes to. The finalizer scans for it when deriving the overall
// review category, so status stays a pure function of the trace.
const detailCategory = "category"

// Trace accumulates check results for one match run. Entries are append-only
// and ordered; nothing mutates an entry after it is recorded.
type Trace struct {
	entries domain.TraceEntries
}

// NewTrace creates an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Pass records a successful check.
func (t *Trace) Pass(step, message string, details map[string]interface{}) {
	t.append(domain.TracePass, step, message, details)
}

// Fail records a failed check and the review category it contributes to.
func (t *Trace) Fail(step, message string, category domain.ReviewCategory, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details[detailCategory] = string(category)
	t.append(domain.TraceFail, step, message, details)
}

// Info records a non-failure observation, e.g. a skipped comparison.
func (t *Trace) Info(step, message string, details map[string]interface{}) {
	t.append(domain.TraceInfo, step, message, details)
}

func (t *Trace) append(status domain.TraceStatus, step, message string, details map[string]interface{}) {
	t.entries = append(t.entries, domain.TraceEntry{
		Step:    step,
		Status:  status,
		Message: message,
		Details: details,
	})
}

// Entries returns the ordered trace recorded so far.
func (t *Trace) Entries() domain.TraceEntries {
	return t.entries
}

// HasFailures reports whether any FAIL entry was recorded.
func (t *Trace) HasFailures() bool {
	for i := range t.entries {
		if t.entries[i].Status == domain.TraceFail {
			return true
		}
	}
	return false
}

// WorstCategory returns the highest-priority review category among FAIL
// entries, or false when the trace has no failures.
func (t *Trace) WorstCategory() (domain.ReviewCategory, bool) {
	var worst domain.ReviewCategory
	found := false
	for i := range t.entries {
		e := &t.entries[i]
		if e.Status != domain.TraceFail {
			continue
		}
		cat := domain.CategoryDataMismatch
		if raw, ok := e.Details[detailCategory].(string); ok && raw != "" {
			cat = domain.ReviewCategory(raw)
		}
		if !found || cat.HigherPriority(worst) {
			worst = cat
			found = true
		}
	}
	return worst, found
}

// FailedSteps lists the step names of all FAIL entries, in trace order.
func (t *Trace) FailedSteps() []string {
	var steps []string
	for i := range t.entries {
		if t.entries[i].Status == domain.TraceFail {
			steps = append(steps, t.entries[i].Step)
		}
	}
	return steps
}
