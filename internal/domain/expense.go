package domain

import "time"

// ExpenseCategory enumerates claim categories.
type ExpenseCategory string

const (
	CategoryTravel         ExpenseCategory = "Travel"
	CategoryFood           ExpenseCategory = "Food"
	CategoryOfficeSupplies ExpenseCategory = "Office Supplies"
	CategoryOther          ExpenseCategory = "Other"
)

// ApprovalStatus enumerates lifecycle states of an expense claim.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "Pending"
	StatusApproved ApprovalStatus = "Approved"
	StatusRejected ApprovalStatus = "Rejected"
)

// DecisionAction is the approver's verdict on a single expense. The wire
// values coincide with the terminal approval statuses.
type DecisionAction string

const (
	DecisionApprove DecisionAction = "Approved"
	DecisionReject  DecisionAction = "Rejected"
)

// ApprovalStep is one link in the approval chain of an expense.
type ApprovalStep struct {
	ApproverID   string
	Status       ApprovalStatus
	Comment      *string
	DecisionDate *time.Time
}

// Expense is the domain model for a submitted expense claim.
type Expense struct {
	ID              string
	EmployeeID      string
	Amount          float64
	Currency        string
	Category        ExpenseCategory
	Description     string
	ExpenseDate     string
	Status          ApprovalStatus
	ReceiptImageURL *string
	ApprovalSteps   []ApprovalStep
	CreatedAt       time.Time
}

// PendingDecision tracks one in-flight approve/reject request. It exists only
// between submission and the server acknowledgment.
type PendingDecision struct {
	ID        string
	ExpenseID string
	Action    DecisionAction
	Comment   string
	StartedAt time.Time
}
