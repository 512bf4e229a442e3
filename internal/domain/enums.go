package domain

// InvoiceStatus is the invoice lifecycle state. The match engine writes only
// StatusMatching, StatusMatched, and StatusNeedsReview; the remaining states
// belong to the review and payment workflow around it.
type InvoiceStatus string

const (
	StatusPending        InvoiceStatus = "pending"
	StatusMatching       InvoiceStatus = "matching"
	StatusMatched        InvoiceStatus = "matched"
	StatusNeedsReview    InvoiceStatus = "needs_review"
	StatusApproved       InvoiceStatus = "approved"
	StatusRejected       InvoiceStatus = "rejected"
	StatusPendingPayment InvoiceStatus = "pending_payment"
	StatusPaid           InvoiceStatus = "paid"
)

// TraceStatus classifies a single trace entry.
type TraceStatus string

const (
	TracePass TraceStatus = "PASS"
	TraceFail TraceStatus = "FAIL"
	TraceInfo TraceStatus = "INFO"
)

// ReviewCategory classifies why an invoice needs human attention. When a run
// produces failures in several categories the highest-priority one wins:
// missing_document > policy_violation > data_mismatch.
type ReviewCategory string

const (
	CategoryMissingDocument ReviewCategory = "missing_document"
	CategoryPolicyViolation ReviewCategory = "policy_violation"
	CategoryDataMismatch    ReviewCategory = "data_mismatch"
)

// categoryPriority orders review categories, highest first.
var categoryPriority = map[ReviewCategory]int{
	CategoryMissingDocument: 3,
	CategoryPolicyViolation: 2,
	CategoryDataMismatch:    1,
}

// HigherPriority reports whether a outranks b.
func (a ReviewCategory) HigherPriority(b ReviewCategory) bool {
	return categoryPriority[a] > categoryPriority[b]
}

// RuleTrigger is the lifecycle event an automation rule fires on.
type RuleTrigger string

const (
	TriggerOnMatched     RuleTrigger = "on_matched"
	TriggerOnNeedsReview RuleTrigger = "on_needs_review"
)

// RuleAction is what an automation rule does when its policy evaluates true.
type RuleAction string

const (
	ActionAutoApprove RuleAction = "auto_approve"
	ActionHold        RuleAction = "hold"
	ActionFlagUrgent  RuleAction = "flag_urgent"
)
