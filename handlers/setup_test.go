package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"election-voting-backend/config"
	"election-voting-backend/handlers"
	"election-voting-backend/models"
	"election-voting-backend/repository"
	"election-voting-backend/routes"
	"election-voting-backend/service"
	"election-voting-backend/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var handlerDBCounter atomic.Int64

// captureNotifier stores voting links in memory so tests can replay them.
type captureNotifier struct {
	mu     sync.Mutex
	tokens map[string]string // email -> token
}

func (n *captureNotifier) SendVotingLink(email, tok string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.tokens == nil {
		n.tokens = make(map[string]string)
	}
	n.tokens[email] = tok
	return nil
}

func (n *captureNotifier) tokenFor(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.tokens[email]
}

type testEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	tokens   *token.Service
	notifier *captureNotifier
}

// setupTestEnvironment wires the full HTTP stack against an in-memory
// SQLite database, with email delivery and Redis stubbed out.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:handler_test_%d?mode=memory&cache=shared", handlerDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Candidate{}, &models.Vote{}))

	tokens, err := token.New("handler-test-secret", time.Hour)
	require.NoError(t, err)

	notifier := &captureNotifier{}
	svc := service.NewVotingService(
		db,
		repository.NewUserRepository(db),
		repository.NewCandidateRepository(db),
		repository.NewVoteRepository(db),
		tokens,
		notifier,
		nil,
		false,
	)

	limiter := handlers.NewRateLimitMiddleware(&config.RateLimitConfig{
		Enabled:     false,
		GlobalRate:  100,
		GlobalBurst: 100,
		IPRate:      100,
		IPBurst:     100,
	}, nil)

	router := routes.SetupRouter(
		handlers.NewVotingHandler(svc),
		handlers.NewHealthHandler(db, nil),
		limiter,
		"test",
	)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return &testEnv{db: db, router: router, tokens: tokens, notifier: notifier}
}

func (e *testEnv) createCandidate(t *testing.T, name string) models.Candidate {
	t.Helper()
	candidate := models.Candidate{Name: name, Description: "Beschreibung für " + name}
	require.NoError(t, e.db.Create(&candidate).Error)
	return candidate
}

// performJSON sends a request with an optional JSON body and returns the recorder.
func (e *testEnv) performJSON(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, target any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), target))
}

func registerVoter(t *testing.T, env *testEnv, email string) string {
	t.Helper()
	w := env.performJSON(t, http.MethodPost, "/register", gin.H{"email": email})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	tok := env.notifier.tokenFor(email)
	require.NotEmpty(t, tok)
	return tok
}
