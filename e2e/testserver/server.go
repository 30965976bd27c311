package testserver

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/odo-hq/expensys/internal/api/dto"
	"github.com/odo-hq/expensys/internal/auth"
	"github.com/odo-hq/expensys/internal/domain"
)

// Server is an in-process stand-in for the expense backend, implementing the
// slice of its API the client core talks to. State lives in memory; every
// test gets a fresh instance.
type Server struct {
	app    *fiber.App
	issuer *auth.Issuer

	mu            sync.Mutex
	accounts      map[string]*Account
	expenses      map[string]*dto.ExpenseResponse
	tokenRequests int

	ln      net.Listener
	baseURL string
}

// Account is a seeded backend user.
type Account struct {
	ID           string
	CompanyID    string
	Username     string
	FullName     string
	Email        string
	PasswordHash string
	Role         domain.Role
	IsActive     bool
}

// New builds a server signing tokens with the given secret.
func New(secret string) *Server {
	s := &Server{
		issuer:   auth.NewIssuer(secret, time.Hour),
		accounts: make(map[string]*Account),
		expenses: make(map[string]*dto.ExpenseResponse),
	}
	s.app = fiber.New(fiber.Config{DisableStartupMessage: true})
	s.registerRoutes()
	return s
}

// Start begins serving on a random loopback port and waits for readiness.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.ln = ln
	s.baseURL = "http://" + ln.Addr().String()

	go func() {
		_ = s.app.Listener(ln)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(s.baseURL + "/health/live")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	return fmt.Errorf("server did not become ready at %s", s.baseURL)
}

// Close shuts the server down.
func (s *Server) Close() {
	_ = s.app.Shutdown()
}

// URL returns the base URL clients should talk to.
func (s *Server) URL() string {
	return s.baseURL
}

// TokenRequests reports how many times the token endpoint was hit.
func (s *Server) TokenRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokenRequests
}

// SeedUser registers an account directly, bypassing signup.
func (s *Server) SeedUser(username, password string, role domain.Role) *Account {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	account := &Account{
		ID:           uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Username:     username,
		FullName:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	s.mu.Lock()
	s.accounts[username] = account
	s.mu.Unlock()
	return account
}

// SeedExpense creates a pending expense awaiting approval and returns its id.
func (s *Server) SeedExpense(employeeID string, amount float64) string {
	expense := &dto.ExpenseResponse{
		ID:          uuid.NewString(),
		EmployeeID:  employeeID,
		Amount:      amount,
		Currency:    "USD",
		Category:    string(domain.CategoryOther),
		ExpenseDate: time.Now().Format("2006-01-02"),
		Status:      string(domain.StatusPending),
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.expenses[expense.ID] = expense
	s.mu.Unlock()
	return expense.ID
}

// ExpenseStatus reports the current status of a stored expense.
func (s *Server) ExpenseStatus(id string) (domain.ApprovalStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.expenses[id]
	if !ok {
		return "", false
	}
	return domain.ApprovalStatus(expense.Status), true
}

func (s *Server) registerRoutes() {
	s.app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := s.app.Group("/auth")
	authGroup.Post("/token", s.handleToken)
	authGroup.Post("/signup", s.handleSignup)

	expenseGroup := s.app.Group("/expenses", s.requireAuth)
	expenseGroup.Get("/approvals", s.requireRole(domain.RoleManager), s.handleApprovalQueue)
	expenseGroup.Get("/my-expenses", s.handleMyExpenses)
	expenseGroup.Post("/", s.handleSubmitExpense)
	expenseGroup.Post("/:id/decision", s.requireRole(domain.RoleManager), s.handleDecision)

	userGroup := s.app.Group("/users", s.requireAuth, s.requireRole(domain.RoleAdmin))
	userGroup.Get("/", s.handleListUsers)
	userGroup.Post("/", s.handleCreateUser)
	userGroup.Put("/:id", s.handleUpdateUser)
}

const accountKey = "test_account"

func (s *Server) requireAuth(c *fiber.Ctx) error {
	header := c.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return detail(c, http.StatusUnauthorized, "Invalid authentication credentials")
	}
	username, _, err := s.issuer.Verify(parts[1])
	if err != nil {
		return detail(c, http.StatusUnauthorized, "Invalid authentication credentials")
	}

	s.mu.Lock()
	account, ok := s.accounts[username]
	s.mu.Unlock()
	if !ok {
		return detail(c, http.StatusUnauthorized, "User not found")
	}
	c.Locals(accountKey, account)
	return c.Next()
}

func (s *Server) requireRole(minimum domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		account := c.Locals(accountKey).(*Account)
		if !account.Role.AtLeast(minimum) {
			return detail(c, http.StatusForbidden, "The user does not have permissions to perform this action.")
		}
		return c.Next()
	}
}

func (s *Server) handleToken(c *fiber.Ctx) error {
	s.mu.Lock()
	s.tokenRequests++
	account, ok := s.accounts[c.FormValue("username")]
	s.mu.Unlock()

	if !ok || bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(c.FormValue("password"))) != nil {
		return detail(c, http.StatusUnauthorized, "Incorrect username or password")
	}
	if !account.IsActive {
		return detail(c, http.StatusBadRequest, "Inactive user")
	}

	token, _, err := s.issuer.Issue(account.Username, account.Role)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "token signing failed")
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (s *Server) handleSignup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		return detail(c, http.StatusBadRequest, "User with this email or username already exists.")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "hashing failed")
	}
	account := &Account{
		ID:           uuid.NewString(),
		CompanyID:    uuid.NewString(),
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	s.accounts[req.Username] = account
	return c.Status(http.StatusCreated).JSON(userResponse(account))
}

func (s *Server) handleApprovalQueue(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	queue := make([]dto.ExpenseResponse, 0)
	for _, expense := range s.expenses {
		if expense.Status == string(domain.StatusPending) {
			queue = append(queue, *expense)
		}
	}
	return c.JSON(queue)
}

func (s *Server) handleMyExpenses(c *fiber.Ctx) error {
	account := c.Locals(accountKey).(*Account)
	s.mu.Lock()
	defer s.mu.Unlock()
	mine := make([]dto.ExpenseResponse, 0)
	for _, expense := range s.expenses {
		if expense.EmployeeID == account.ID {
			mine = append(mine, *expense)
		}
	}
	return c.JSON(mine)
}

func (s *Server) handleSubmitExpense(c *fiber.Ctx) error {
	account := c.Locals(accountKey).(*Account)
	var req dto.ExpenseCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Amount <= 0 {
		return detail(c, http.StatusBadRequest, "amount must be greater than 0")
	}

	expense := &dto.ExpenseResponse{
		ID:          uuid.NewString(),
		EmployeeID:  account.ID,
		Amount:      req.Amount,
		Currency:    strings.ToUpper(req.Currency),
		Category:    req.Category,
		Description: req.Description,
		ExpenseDate: req.ExpenseDate,
		Status:      string(domain.StatusPending),
		CreatedAt:   time.Now().UTC(),
	}
	s.mu.Lock()
	s.expenses[expense.ID] = expense
	s.mu.Unlock()
	return c.Status(http.StatusCreated).JSON(expense)
}

func (s *Server) handleDecision(c *fiber.Ctx) error {
	var req dto.DecisionRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	if req.Status != string(domain.DecisionApprove) && req.Status != string(domain.DecisionReject) {
		return detail(c, http.StatusBadRequest, "Approval decision cannot be 'Pending'. Must be 'Approved' or 'Rejected'.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	expense, ok := s.expenses[c.Params("id")]
	if !ok {
		return detail(c, http.StatusNotFound, "Expense not found.")
	}
	if expense.Status != string(domain.StatusPending) {
		return detail(c, http.StatusForbidden, "Not your turn to approve this expense.")
	}
	expense.Status = req.Status
	return c.JSON(expense)
}

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]dto.UserResponse, 0, len(s.accounts))
	for _, account := range s.accounts {
		users = append(users, userResponse(account))
	}
	return c.JSON(users)
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	var req dto.UserCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}
	role, ok := domain.ParseRole(req.Role)
	if !ok {
		role = domain.RoleEmployee
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return detail(c, http.StatusInternalServerError, "hashing failed")
	}

	admin := c.Locals(accountKey).(*Account)
	account := &Account{
		ID:           uuid.NewString(),
		CompanyID:    admin.CompanyID,
		Username:     req.Username,
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Username]; exists {
		return detail(c, http.StatusBadRequest, "User with this email or username already exists.")
	}
	s.accounts[req.Username] = account
	return c.Status(http.StatusCreated).JSON(userResponse(account))
}

func (s *Server) handleUpdateUser(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return detail(c, http.StatusBadRequest, "invalid payload")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, account := range s.accounts {
		if account.ID != c.Params("id") {
			continue
		}
		if req.FullName != nil {
			account.FullName = *req.FullName
		}
		if req.Email != nil {
			account.Email = *req.Email
		}
		if req.Role != nil {
			if role, ok := domain.ParseRole(*req.Role); ok {
				account.Role = role
			}
		}
		if req.IsActive != nil {
			account.IsActive = *req.IsActive
		}
		return c.JSON(userResponse(account))
	}
	return detail(c, http.StatusNotFound, "User not found")
}

func userResponse(account *Account) dto.UserResponse {
	return dto.UserResponse{
		ID:        account.ID,
		CompanyID: account.CompanyID,
		FullName:  account.FullName,
		Email:     account.Email,
		Username:  account.Username,
		Role:      string(account.Role),
		IsActive:  account.IsActive,
	}
}

func detail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"detail": message})
}
