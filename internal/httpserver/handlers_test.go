package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"authbox/backend/internal/config"
	domain "authbox/backend/internal/domain/account"
	"authbox/backend/internal/infrastructure/hash"
	"authbox/backend/internal/infrastructure/token"
	loginusecase "authbox/backend/internal/usecase/login"
	signupusecase "authbox/backend/internal/usecase/signup"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo is an in-memory account store enforcing uniqueness atomically,
// the way the database constraints do.
type memRepo struct {
	mu       sync.Mutex
	accounts []*domain.Account
	failNext error
}

func (m *memRepo) FindByIdentifier(ctx context.Context, identifier string) (*domain.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		return nil, m.takeErr()
	}
	for _, acc := range m.accounts {
		if acc.Username == identifier || acc.Email == identifier {
			copy := *acc
			return &copy, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (m *memRepo) FindConflicts(ctx context.Context, username, email string) (domain.Conflict, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		return domain.Conflict{}, m.takeErr()
	}
	var conflict domain.Conflict
	for _, acc := range m.accounts {
		if acc.Username == username {
			conflict.UsernameTaken = true
		}
		if acc.Email == email {
			conflict.EmailTaken = true
		}
	}
	return conflict, nil
}

func (m *memRepo) Insert(ctx context.Context, acc *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failNext != nil {
		return m.takeErr()
	}
	for _, existing := range m.accounts {
		if existing.Username == acc.Username {
			return domain.ErrUsernameTaken
		}
		if existing.Email == acc.Email {
			return domain.ErrEmailTaken
		}
	}
	copy := *acc
	m.accounts = append(m.accounts, &copy)
	return nil
}

func (m *memRepo) takeErr() error {
	err := m.failNext
	m.failNext = nil
	return err
}

func newTestServer(t *testing.T) (*httptest.Server, *memRepo, *token.JWTManager) {
	t.Helper()

	repo := &memRepo{}
	hasher := hash.NewBcrypt()
	tokens := token.NewJWTManager("test-secret", 24*time.Hour, "authbox")

	cfg := config.Config{HTTPPort: "0", AllowedOrigins: []string{"*"}}
	srv := NewServer(cfg,
		signupusecase.NewService(repo, hasher),
		loginusecase.NewService(repo, hasher, tokens),
	)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, repo, tokens
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func signupPayload() map[string]string {
	return map[string]string{
		"username": "alice1",
		"email":    "a@x.com",
		"password": "longenough",
	}
}

func TestSignupThenLogin(t *testing.T) {
	t.Parallel()

	ts, _, tokens := newTestServer(t)

	resp := postJSON(t, ts.URL+"/signup", signupPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Signed up successfully!", body["message"])

	before := time.Now()
	resp = postJSON(t, ts.URL+"/login", map[string]string{
		"user":     "alice1",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body = decodeBody(t, resp)
	assert.Equal(t, "Logged in successfully!", body["message"])

	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	subject, expiry, err := tokens.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", subject)
	assert.WithinDuration(t, before.Add(24*time.Hour), expiry, 5*time.Second)
}

func TestLoginByEmail(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/signup", signupPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/login", map[string]string{
		"user":     "a@x.com",
		"password": "longenough",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSignupValidationErrors(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/signup", map[string]string{
		"username": "ab",
		"email":    "not-an-email",
		"password": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	defer resp.Body.Close()
	var body struct {
		Errors []struct {
			Field   string `json:"field"`
			Message string `json:"message"`
		} `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Errors, 3)
}

func TestSignupConflictMessages(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/signup", signupPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	tests := []struct {
		name    string
		payload map[string]string
		message string
	}{
		{
			"both taken",
			map[string]string{"username": "alice1", "email": "a@x.com", "password": "longenough"},
			"Username and email are already taken",
		},
		{
			"email taken",
			map[string]string{"username": "bobby1", "email": "a@x.com", "password": "longenough"},
			"Email already taken",
		},
		{
			"username taken",
			map[string]string{"username": "alice1", "email": "b@x.com", "password": "longenough"},
			"Username already taken",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/signup", tc.payload)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			body := decodeBody(t, resp)
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestLoginUnknownIdentifier(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/login", map[string]string{
		"user":     "nobody99",
		"password": "whatever",
	})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "No user found with that username/email", body["message"])
}

func TestLoginWrongPassword(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/signup", signupPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/login", map[string]string{
		"user":     "alice1",
		"password": "wrongpass",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Incorrect password!", body["message"])
	assert.NotContains(t, body, "token")
}

func TestSignupStoreFailure(t *testing.T) {
	t.Parallel()

	ts, repo, _ := newTestServer(t)
	repo.failNext = errors.New("connection refused")

	resp := postJSON(t, ts.URL+"/signup", signupPayload())
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Internal Server Error", body["message"])
}

func TestSignupInvalidJSON(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/signup", "application/json", bytes.NewReader([]byte("{")))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSignupMethodNotAllowed(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/signup")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestConcurrentSignupsSameEmail(t *testing.T) {
	t.Parallel()

	ts, repo, _ := newTestServer(t)

	const attempts = 2
	statuses := make(chan int, attempts)
	var start sync.WaitGroup
	start.Add(1)

	for i := 0; i < attempts; i++ {
		username := []string{"alice1", "bobby1"}[i]
		go func() {
			start.Wait()
			payload, _ := json.Marshal(map[string]string{
				"username": username,
				"email":    "a@x.com",
				"password": "longenough",
			})
			resp, err := http.Post(ts.URL+"/signup", "application/json", bytes.NewReader(payload))
			if err != nil {
				statuses <- 0
				return
			}
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	start.Done()

	var created, conflicted int
	for i := 0; i < attempts; i++ {
		switch <-statuses {
		case http.StatusCreated:
			created++
		case http.StatusBadRequest:
			conflicted++
		}
	}

	assert.Equal(t, 1, created, "exactly one signup must win")
	assert.Equal(t, 1, conflicted, "the loser must see a conflict")
	assert.Len(t, repo.accounts, 1, "no duplicate rows")
}

func TestHealthAndTesting(t *testing.T) {
	t.Parallel()

	ts, _, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	body := decodeBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])

	resp, err = http.Get(ts.URL + "/testing")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
