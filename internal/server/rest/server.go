// Package rest exposes the HTTP API: registration, login, profile, budgets
// and transactions. Handlers translate JSON payloads into service calls and
// service errors into HTTP statuses.
package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finbudget/internal/logging"
	"finbudget/internal/server/models"
	"finbudget/internal/server/services"
)

// UserService is the part of the user use cases the HTTP layer needs.
type UserService interface {
	Register(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, int, error)
	GetProfile(ctx context.Context, userID int) (*models.User, error)
}

type BudgetService interface {
	List(ctx context.Context, userID int) ([]models.Budget, error)
	Create(ctx context.Context, userID int, name string, amount float64, month string, categories []services.CategoryInput) (*models.Budget, error)
	Update(ctx context.Context, userID, budgetID int, update services.BudgetUpdate) error
	Delete(ctx context.Context, userID, budgetID int) error
}

type TransactionService interface {
	List(ctx context.Context, userID int) ([]models.Transaction, error)
	Create(ctx context.Context, transaction *models.Transaction) (*models.Transaction, error)
	Delete(ctx context.Context, userID, transactionID int) error
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	address      string
	logger       logging.Logger
	users        UserService
	budgets      BudgetService
	transactions TransactionService
	jwtSecret    []byte
}

func NewServer(address string, l logging.Logger, us UserService, bs BudgetService, ts TransactionService, secretKey string) *Server {
	return &Server{
		address:      address,
		logger:       l.With("module", "rest_server"),
		users:        us,
		budgets:      bs,
		transactions: ts,
		jwtSecret:    []byte(secretKey),
	}
}

// Router assembles the gin engine with all middleware and routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(s.recoveryMiddleware())
	router.Use(s.requestIDMiddleware())
	router.Use(s.corsMiddleware())
	router.Use(s.loggingMiddleware())

	router.POST("/register", s.handleRegister)
	router.POST("/login", s.handleLogin)

	protected := router.Group("/")
	protected.Use(s.authMiddleware())
	{
		protected.GET("/profile", s.handleProfile)
		protected.GET("/transactions", s.handleTransactionList)
		protected.POST("/transactions", s.handleTransactionCreate)
		protected.DELETE("/transactions/:id", s.handleTransactionDelete)
		protected.GET("/budgets", s.handleBudgetList)
		protected.POST("/budgets", s.handleBudgetCreate)
		protected.PUT("/budgets/:id", s.handleBudgetUpdate)
		protected.DELETE("/budgets/:id", s.handleBudgetDelete)
	}

	return router
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	gin.SetMode(gin.ReleaseMode)

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.Router(),
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	<-done
	return nil
}
