package e2e

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/odo-hq/expensys/e2e/testserver"
	"github.com/odo-hq/expensys/internal/api"
	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/auth"
	"github.com/odo-hq/expensys/internal/config"
	"github.com/odo-hq/expensys/internal/credential"
	"github.com/odo-hq/expensys/internal/domain"
	"github.com/odo-hq/expensys/internal/events"
	"github.com/odo-hq/expensys/internal/navigation"
	"github.com/odo-hq/expensys/internal/observability"
	"github.com/odo-hq/expensys/internal/service"
	"github.com/odo-hq/expensys/internal/worker"
)

const signingSecret = "e2e-secret"

// stack wires the full client the way a shell embedding it would.
type stack struct {
	sessions  *service.SessionService
	approvals *service.ApprovalService
	client    *api.Client
	store     credential.Store
	worker    *worker.ExpiryWorker
}

func startServer(t *testing.T) *testserver.Server {
	t.Helper()
	server := testserver.New(signingSecret)
	require.NoError(t, server.Start())
	t.Cleanup(server.Close)
	return server
}

func newStack(t *testing.T, baseURL string, store credential.Store) *stack {
	t.Helper()
	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	client := api.NewClient(
		config.APIConfig{BaseURL: baseURL, TimeoutSeconds: 5},
		store, logger, observability.NewMetrics())
	sessions := service.NewSessionService(service.SessionDependencies{
		Store:      store,
		Decoder:    auth.NewUnverifiedDecoder(),
		API:        client,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	expiry := worker.NewExpiryWorker(sessions, logger)
	expiry.Register(dispatcher)
	t.Cleanup(expiry.Stop)
	return &stack{
		sessions:  sessions,
		approvals: service.NewApprovalService(client, dispatcher, logger),
		client:    client,
		store:     store,
		worker:    expiry,
	}
}

func TestSessionSurvivesRestart(t *testing.T) {
	server := startServer(t)
	server.SeedUser("bob", "hunter2", domain.RoleEmployee)

	store := credential.NewFileStore(filepath.Join(t.TempDir(), "token"))

	first := newStack(t, server.URL(), store)
	first.sessions.Initialize()
	require.NoError(t, first.sessions.Login(context.Background(), "bob", "hunter2"))
	require.Equal(t, 1, server.TokenRequests())

	// A fresh stack over the same store stands in for a process restart.
	second := newStack(t, server.URL(), store)
	session := second.sessions.Initialize()

	assert.Equal(t, domain.SessionAuthenticated, session.Phase)
	assert.Equal(t, "bob", session.Subject)
	assert.Equal(t, domain.RoleEmployee, session.Role)
	assert.Equal(t, 1, server.TokenRequests(), "restoration must not re-authenticate")
}

func TestSignupGrantsAdminAccess(t *testing.T) {
	server := startServer(t)
	app := newStack(t, server.URL(), credential.NewMemoryStore())

	user, err := app.client.Signup(context.Background(), dto.SignupRequest{
		CompanyName:     "Initech",
		CompanyCurrency: "USD",
		FullName:        "Carol Admin",
		Email:           "carol@initech.example",
		Username:        "carol",
		Password:        "s3cret",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, user.Role)

	require.NoError(t, app.sessions.Login(context.Background(), "carol", "s3cret"))
	session := app.sessions.Current()

	menu := navigation.MenuFor(session.Role)
	assert.Len(t, menu, 6, "admin menu spans all three tiers")
	assert.Equal(t, navigation.Decision{Outcome: navigation.OutcomeAllow},
		navigation.Authorize("/admin/users", session))

	users, err := app.client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "carol", users[0].Username)
}

func TestAdminProvisionsAndDeactivatesUsers(t *testing.T) {
	server := startServer(t)
	server.SeedUser("carol", "s3cret", domain.RoleAdmin)
	app := newStack(t, server.URL(), credential.NewMemoryStore())
	require.NoError(t, app.sessions.Login(context.Background(), "carol", "s3cret"))

	created, err := app.client.CreateUser(context.Background(), dto.UserCreateRequest{
		FullName: "Dave Employee",
		Email:    "dave@initech.example",
		Username: "dave",
		Password: "pass123",
		Role:     "employee",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleEmployee, created.Role)

	inactive := false
	updated, err := app.client.UpdateUser(context.Background(), created.ID, dto.UserUpdateRequest{
		IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	// A deactivated account can no longer obtain tokens.
	err = app.sessions.Login(context.Background(), "dave", "pass123")
	require.Error(t, err)
}

func TestStaleCredentialTornDownOnFirstRequest(t *testing.T) {
	server := startServer(t)
	server.SeedUser("mallory", "pw", domain.RoleManager)
	store := credential.NewMemoryStore()

	// Signed with a different secret: decodes client-side, rejected server-side.
	forged, _, err := auth.NewIssuer("not-the-backend-secret", time.Hour).Issue("mallory", domain.RoleManager)
	require.NoError(t, err)
	require.NoError(t, store.Save(forged))

	app := newStack(t, server.URL(), store)
	session := app.sessions.Initialize()
	require.True(t, session.Authenticated(), "restoration trusts the decoded shape")
	assert.Equal(t, navigation.Decision{Outcome: navigation.OutcomeAllow},
		navigation.Authorize("/manager/dashboard", session))

	err = app.approvals.RefreshQueue(context.Background())
	require.Error(t, err)

	session = app.sessions.Current()
	assert.Equal(t, domain.SessionUnauthenticated, session.Phase)
	_, ok := store.Load()
	assert.False(t, ok, "rejected credential must be cleared")
	assert.Equal(t, navigation.Decision{Outcome: navigation.OutcomeRedirect, Target: navigation.LoginPath},
		navigation.Authorize("/manager/dashboard", session))
}

func TestManagerApprovalFlow(t *testing.T) {
	server := startServer(t)
	dave := server.SeedUser("dave", "pw", domain.RoleEmployee)
	server.SeedUser("carol", "pw", domain.RoleManager)
	first := server.SeedExpense(dave.ID, 120.00)
	second := server.SeedExpense(dave.ID, 75.25)

	app := newStack(t, server.URL(), credential.NewMemoryStore())
	require.NoError(t, app.sessions.Login(context.Background(), "carol", "pw"))

	require.NoError(t, app.approvals.RefreshQueue(context.Background()))
	require.Len(t, app.approvals.Queue(), 2)

	require.NoError(t, app.approvals.SubmitDecision(context.Background(), first, domain.DecisionApprove, "ok"))
	assert.Len(t, app.approvals.Queue(), 1)
	status, ok := server.ExpenseStatus(first)
	require.True(t, ok)
	assert.Equal(t, domain.StatusApproved, status)

	require.NoError(t, app.approvals.SubmitDecision(context.Background(), second, domain.DecisionReject, "no receipt"))
	assert.Empty(t, app.approvals.Queue())
	status, ok = server.ExpenseStatus(second)
	require.True(t, ok)
	assert.Equal(t, domain.StatusRejected, status)
}

func TestDecisionOnAlreadyDecidedExpense(t *testing.T) {
	server := startServer(t)
	dave := server.SeedUser("dave", "pw", domain.RoleEmployee)
	server.SeedUser("carol", "pw", domain.RoleManager)
	expenseID := server.SeedExpense(dave.ID, 10)

	app := newStack(t, server.URL(), credential.NewMemoryStore())
	require.NoError(t, app.sessions.Login(context.Background(), "carol", "pw"))
	require.NoError(t, app.approvals.RefreshQueue(context.Background()))
	require.NoError(t, app.approvals.SubmitDecision(context.Background(), expenseID, domain.DecisionApprove, ""))

	err := app.approvals.SubmitDecision(context.Background(), expenseID, domain.DecisionReject, "changed my mind")
	require.Error(t, err, "a settled expense cannot be re-decided")

	status, ok := server.ExpenseStatus(expenseID)
	require.True(t, ok)
	assert.Equal(t, domain.StatusApproved, status, "the original verdict stands")
}

func TestEmployeeForbiddenFromApprovals(t *testing.T) {
	server := startServer(t)
	server.SeedUser("bob", "pw", domain.RoleEmployee)

	app := newStack(t, server.URL(), credential.NewMemoryStore())
	require.NoError(t, app.sessions.Login(context.Background(), "bob", "pw"))

	err := app.approvals.RefreshQueue(context.Background())
	require.Error(t, err)

	// 403 is an authorization verdict, not a credential failure: the session
	// must survive.
	assert.True(t, app.sessions.Current().Authenticated())
	_, ok := app.store.Load()
	assert.True(t, ok)
}

func TestEmployeeSubmitsAndListsExpenses(t *testing.T) {
	server := startServer(t)
	server.SeedUser("bob", "pw", domain.RoleEmployee)

	app := newStack(t, server.URL(), credential.NewMemoryStore())
	require.NoError(t, app.sessions.Login(context.Background(), "bob", "pw"))

	description := "client dinner"
	created, err := app.client.SubmitExpense(context.Background(), dto.ExpenseCreateRequest{
		Amount:      58.90,
		Currency:    "usd",
		Category:    string(domain.CategoryFood),
		Description: &description,
		ExpenseDate: "2026-08-27",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "USD", created.Currency)

	mine, err := app.client.MyExpenses(context.Background())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)
	assert.Equal(t, "client dinner", mine[0].Description)
}
