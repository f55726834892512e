package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/nskaret/lingoread/internal/auth"
	"github.com/nskaret/lingoread/internal/handlers"
	middlewareCustom "github.com/nskaret/lingoread/internal/middleware"
	"github.com/nskaret/lingoread/internal/repositories"
	"github.com/nskaret/lingoread/internal/routes"
	"github.com/nskaret/lingoread/internal/services"
	pkglogger "github.com/nskaret/lingoread/pkg/logger"
)

// SentEmail represents a captured activation code delivery
type SentEmail struct {
	To   string
	Code string
}

// MockEmailService captures sent activation codes for test assertions
type MockEmailService struct {
	SentEmails []SentEmail
	mu         sync.Mutex
}

// SendActivationCode records the delivery
func (m *MockEmailService) SendActivationCode(ctx context.Context, to, code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SentEmails = append(m.SentEmails, SentEmail{To: to, Code: code})
	return nil
}

// GetLastEmail returns the most recent delivery
func (m *MockEmailService) GetLastEmail() *SentEmail {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.SentEmails) == 0 {
		return nil
	}
	return &m.SentEmails[len(m.SentEmails)-1]
}

// TestServer wraps httptest.Server with database and all dependencies
type TestServer struct {
	Server       *httptest.Server
	DB           *TestDB
	EmailService *MockEmailService
	TokenManager *auth.TokenManager
	UserRepo     *repositories.UserRepository
	CodeRepo     *repositories.ActivationCodeRepository
}

// NewTestServer initializes a complete HTTP server over a real database.
// The auth rate limit is set high so lockout tests can hammer the login
// endpoint, and the timing delay is disabled to keep the suite fast.
func NewTestServer(db *TestDB) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	auditLogger := pkglogger.NewAuditLogger(logger)

	userRepo := repositories.NewUserRepository(db.DB)
	codeRepo := repositories.NewActivationCodeRepository(db.DB)
	blogRepo := repositories.NewBlogRepository(db.DB)

	tokenManager := auth.NewTokenManager("integration-test-secret-key", 24*time.Hour)
	emailService := &MockEmailService{}

	authService := services.NewAuthService(userRepo, codeRepo, tokenManager,
		services.DefaultLockoutPolicy(), nil, logger, auditLogger)
	blogService := services.NewBlogService(blogRepo, logger)
	adminService := services.NewAdminService(userRepo, codeRepo, blogRepo, emailService, logger, auditLogger)

	authHandler := handlers.NewAuthHandler(authService, nil)
	blogHandler := handlers.NewBlogHandler(blogService)
	adminHandler := handlers.NewAdminHandler(adminService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.Recoverer)

	rateLimitConfig := middlewareCustom.RateLimitConfig{
		Requests: 10000,
		Window:   time.Minute,
	}
	routes.RegisterRoutes(router, authHandler, blogHandler, adminHandler, tokenManager, userRepo, rateLimitConfig)

	return &TestServer{
		Server:       httptest.NewServer(router),
		DB:           db,
		EmailService: emailService,
		TokenManager: tokenManager,
		UserRepo:     userRepo,
		CodeRepo:     codeRepo,
	}
}

// Close shuts down the HTTP server
func (ts *TestServer) Close() {
	ts.Server.Close()
}

// DoJSON sends a JSON request and returns the response
func (ts *TestServer) DoJSON(method, path string, body interface{}, token string) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode body: %w", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return ts.Server.Client().Do(req)
}

// DecodeJSON reads and decodes a response body
func DecodeJSON(resp *http.Response, target interface{}) error {
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(target)
}
