package api

import (
	"context"
	"net/http"

	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/domain"
)

// ApprovalQueue fetches the expenses waiting for the current actor's
// decision.
func (c *Client) ApprovalQueue(ctx context.Context) ([]domain.Expense, error) {
	var resp []dto.ExpenseResponse
	if err := c.doJSON(ctx, "expenses.approvals", http.MethodGet, "/expenses/approvals", nil, &resp, true); err != nil {
		return nil, err
	}
	return toExpenses(resp), nil
}

// MyExpenses lists the claims submitted by the current actor, newest first.
func (c *Client) MyExpenses(ctx context.Context) ([]domain.Expense, error) {
	var resp []dto.ExpenseResponse
	if err := c.doJSON(ctx, "expenses.mine", http.MethodGet, "/expenses/my-expenses", nil, &resp, true); err != nil {
		return nil, err
	}
	return toExpenses(resp), nil
}

// SubmitExpense files a new claim.
func (c *Client) SubmitExpense(ctx context.Context, req dto.ExpenseCreateRequest) (*domain.Expense, error) {
	var resp dto.ExpenseResponse
	if err := c.doJSON(ctx, "expenses.submit", http.MethodPost, "/expenses", req, &resp, true); err != nil {
		return nil, err
	}
	expense := resp.ToDomain()
	return &expense, nil
}

// Decide records an approver's verdict on one expense.
func (c *Client) Decide(ctx context.Context, expenseID string, req dto.DecisionRequest) (*domain.Expense, error) {
	var resp dto.ExpenseResponse
	if err := c.doJSON(ctx, "expenses.decide", http.MethodPost, "/expenses/"+expenseID+"/decision", req, &resp, true); err != nil {
		return nil, err
	}
	expense := resp.ToDomain()
	return &expense, nil
}

func toExpenses(resp []dto.ExpenseResponse) []domain.Expense {
	expenses := make([]domain.Expense, 0, len(resp))
	for _, item := range resp {
		expenses = append(expenses, item.ToDomain())
	}
	return expenses
}
