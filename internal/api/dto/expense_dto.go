package dto

import (
	"time"

	"github.com/odo-hq/expensys/internal/domain"
)

// ApprovalStepResponse is one link of the approval chain on the wire.
type ApprovalStepResponse struct {
	ApproverID   string     `json:"approver_id"`
	Status       string     `json:"status"`
	Comment      *string    `json:"comment,omitempty"`
	DecisionDate *time.Time `json:"decision_date,omitempty"`
}

// ExpenseResponse is the backend's public view of an expense claim.
type ExpenseResponse struct {
	ID              string                 `json:"_id"`
	EmployeeID      string                 `json:"employee_id"`
	Amount          float64                `json:"amount"`
	Currency        string                 `json:"currency"`
	Category        string                 `json:"category"`
	Description     *string                `json:"description"`
	ExpenseDate     string                 `json:"expense_date"`
	Status          string                 `json:"status"`
	ReceiptImageURL *string                `json:"receipt_image_url,omitempty"`
	ApprovalSteps   []ApprovalStepResponse `json:"approval_steps"`
	CreatedAt       time.Time              `json:"created_at"`
}

// ToDomain maps the wire shape onto the domain model.
func (r ExpenseResponse) ToDomain() domain.Expense {
	expense := domain.Expense{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Category:        domain.ExpenseCategory(r.Category),
		ExpenseDate:     r.ExpenseDate,
		Status:          domain.ApprovalStatus(r.Status),
		ReceiptImageURL: r.ReceiptImageURL,
		CreatedAt:       r.CreatedAt,
	}
	if r.Description != nil {
		expense.Description = *r.Description
	}
	for _, step := range r.ApprovalSteps {
		expense.ApprovalSteps = append(expense.ApprovalSteps, domain.ApprovalStep{
			ApproverID:   step.ApproverID,
			Status:       domain.ApprovalStatus(step.Status),
			Comment:      step.Comment,
			DecisionDate: step.DecisionDate,
		})
	}
	return expense
}

// ExpenseCreateRequest payload for submitting a new claim.
type ExpenseCreateRequest struct {
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Category    string  `json:"category"`
	Description *string `json:"description,omitempty"`
	ExpenseDate string  `json:"expense_date"`
}

// DecisionRequest payload for an approver's verdict.
type DecisionRequest struct {
	Status  string `json:"status"`
	Comment string `json:"comment,omitempty"`
}
