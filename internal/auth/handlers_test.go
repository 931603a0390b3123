package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pashagolub/pgxmock/v3"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthHandlersRegisterLoginVerify(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	rdb := newTestRedis(t)

	createdAt := time.Now()
	updatedAt := time.Now()

	// display_name falls back to the username when the client omits it
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", "user", pgxmock.AnyArg(), "user", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(createdAt, updatedAt))

	svc := NewService("test-secret", mock, rdb)
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)

	registerBody, _ := json.Marshal(RegisterRequest{Email: "user@example.com", Username: "user", Password: "pass"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(registerBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v", err)
	}

	passwordBytes, _ := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	passwordHash := string(passwordBytes)
	mock.ExpectQuery(`SELECT id, email, username, password_hash, display_name, avatar_url, created_at, updated_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "display_name", "avatar_url", "created_at", "updated_at"}).
			AddRow("user-1", "user@example.com", "user", passwordHash, "", "", createdAt, updatedAt))

	loginBody, _ := json.Marshal(LoginRequest{Email: "user@example.com", Password: "pass"})
	req = httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(loginBody))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("login status: %v", err)
	}

	tokens, _ := svc.GenerateTokens(context.Background(), "user-1")

	req = httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("verify status: %v", err)
	}
}

func TestAuthRegisterKeepsDisplayName(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()
	rdb := newTestRedis(t)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", "user", pgxmock.AnyArg(), "Ridge Runner", "").
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", mock, rdb))

	body, _ := json.Marshal(RegisterRequest{
		Email:       "user@example.com",
		Username:    "user",
		Password:    "pass",
		DisplayName: "Ridge Runner",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAuthRefreshInvalidToken(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("test-secret", nil, nil))

	body := []byte(`{"refresh_token":"bad"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestAuthRefreshSuccess(t *testing.T) {
	rdb := newTestRedis(t)
	svc := NewService("secret", nil, rdb)

	refresh, err := svc.GenerateTokens(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("generate tokens: %v", err)
	}

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)

	body, _ := json.Marshal(map[string]string{"refresh_token": refresh.RefreshToken})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh status: %v", err)
	}

	// rotated token must be rejected the second time
	req = httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized on reuse")
	}
}

func TestAuthRegisterBadPayload(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader([]byte("{bad")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestAuthLoginBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader([]byte(`{"email":""}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestAuthRefreshBadRequest(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil, nil))

	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected bad request")
	}
}

func TestAuthVerifyMissingBearer(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestAuthVerifyInvalidToken(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", nil, nil))

	req := httptest.NewRequest(http.MethodGet, "/auth/jwt/verify", nil)
	req.Header.Set("Authorization", "Bearer bad")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestParseBearer(t *testing.T) {
	if parseBearer("bad") != "" {
		t.Fatalf("expected empty token")
	}
	if parseBearer("Bearer token") != "token" {
		t.Fatalf("expected token")
	}
}

func TestAuthRegisterServiceError(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "user@example.com", "user", pgxmock.AnyArg(), "user", "").
		WillReturnError(errSign)

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", mock, nil))

	body, _ := json.Marshal(RegisterRequest{Email: "user@example.com", Username: "user", Password: "pass"})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected register error")
	}
}

func TestAuthLoginUnauthorized(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct"), bcrypt.DefaultCost)
	mock.ExpectQuery(`SELECT id, email, username, password_hash, display_name, avatar_url, created_at, updated_at`).
		WithArgs("user@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "username", "password_hash", "display_name", "avatar_url", "created_at", "updated_at"}).
			AddRow("user-1", "user@example.com", "user", string(hash), "", "", time.Now(), time.Now()))

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), NewService("secret", mock, nil))

	body, _ := json.Marshal(LoginRequest{Email: "user@example.com", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected unauthorized")
	}
}

func TestAuthRefreshGenerateTokensError(t *testing.T) {
	rdb := newTestRedis(t)
	svc := NewService("secret", nil, rdb)

	refresh, err := svc.signToken("user-1", refreshTokenTTL)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if err := rdb.Set(context.Background(), refreshKeyPrefix+refresh, "user-1", time.Minute).Err(); err != nil {
		t.Fatalf("seed redis: %v", err)
	}

	oldSign := signTokenFn
	signTokenFn = func(_ *Service, _ string, _ time.Duration) (string, error) {
		return "", errSign
	}
	defer func() { signTokenFn = oldSign }()

	app := fiber.New()
	RegisterRoutes(app.Group("/auth"), svc)

	body, _ := json.Marshal(map[string]string{"refresh_token": refresh})
	req := httptest.NewRequest(http.MethodPost, "/auth/refresh", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil || resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected refresh error")
	}
}
