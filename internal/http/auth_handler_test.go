package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"skycast/internal/domain"
	"skycast/internal/repository"
	"skycast/internal/service"
	"skycast/internal/weather"
)

type mockUserRepo struct {
	nextID int64
	users  []domain.User
}

func (m *mockUserRepo) Create(_ context.Context, user domain.User) (domain.User, error) {
	for _, u := range m.users {
		if (user.Email != "" && u.Email == user.Email) || (user.Mobile != "" && u.Mobile == user.Mobile) {
			return domain.User{}, repository.ErrDuplicate
		}
	}
	m.nextID++
	user.ID = m.nextID
	m.users = append(m.users, user)
	return user, nil
}

func (m *mockUserRepo) GetByIdentifier(_ context.Context, identifier string) (domain.User, error) {
	for _, u := range m.users {
		if (u.Email != "" && u.Email == identifier) || (u.Mobile != "" && u.Mobile == identifier) {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.users {
		if u.Email != "" && u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, repository.ErrNotFound
}

func setupRouter(repo repository.UserRepository, weatherClient weather.Client) (*gin.Engine, *service.JWTService) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	authSvc := service.NewAuthService(logger, repo)
	google := service.NewGoogleAuthenticator(logger, repo, nil, "", "", "")
	authH := NewAuthHandler(logger, authSvc, jwtSvc, google, "http://localhost:8501")
	weatherH := NewWeatherHandler(logger, weatherClient)
	return NewRouter(logger, authH, weatherH, jwtSvc), jwtSvc
}

func performForm(r http.Handler, method, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func performGet(r http.Handler, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return body
}

func TestRootEndpoint(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	rec := performGet(r, "/", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["message"] == "" {
		t.Fatalf("expected liveness message, got %v", body)
	}
}

func TestSignupEndpoint(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	rec := performForm(r, http.MethodPost, "/signup", url.Values{
		"email":    {"user@example.com"},
		"password": {"hunter2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if body := decodeBody(t, rec); body["message"] != "User registered successfully" {
		t.Fatalf("unexpected body: %v", body)
	}
}

func TestSignupEndpointMissingIdentifier(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	rec := performForm(r, http.MethodPost, "/signup", url.Values{
		"password": {"hunter2"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "Email or mobile required" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestSignupEndpointDuplicate(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	form := url.Values{"email": {"dup@example.com"}, "password": {"pw"}}
	if rec := performForm(r, http.MethodPost, "/signup", form); rec.Code != http.StatusOK {
		t.Fatalf("first signup: %d", rec.Code)
	}
	rec := performForm(r, http.MethodPost, "/signup", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "User already exists" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestTokenEndpointIssuesVerifiableToken(t *testing.T) {
	r, jwtSvc := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	performForm(r, http.MethodPost, "/signup", url.Values{
		"email":    {"user@example.com"},
		"password": {"hunter2"},
	})

	rec := performForm(r, http.MethodPost, "/token", url.Values{
		"username": {"user@example.com"},
		"password": {"hunter2"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["token_type"] != "bearer" {
		t.Fatalf("unexpected token_type: %v", body["token_type"])
	}
	token, _ := body["access_token"].(string)
	subject, err := jwtSvc.VerifyToken(token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if subject != "user@example.com" {
		t.Fatalf("unexpected subject: %q", subject)
	}
}

func TestTokenEndpointInvalidCredentials(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	rec := performForm(r, http.MethodPost, "/token", url.Values{
		"username": {"nobody@example.com"},
		"password": {"pw"},
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "Invalid credentials" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestMeEndpoint(t *testing.T) {
	repo := &mockUserRepo{}
	r, jwtSvc := setupRouter(repo, &weather.MockClient{})

	performForm(r, http.MethodPost, "/signup", url.Values{
		"email":    {"user@example.com"},
		"password": {"hunter2"},
	})

	token, err := jwtSvc.IssueToken("user@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := performGet(r, "/me", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMeEndpointUserGone(t *testing.T) {
	r, jwtSvc := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	// Token válido cuyo subject nunca existió en el almacén.
	token, err := jwtSvc.IssueToken("ghost@example.com")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	rec := performGet(r, "/me", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "User not found" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestMeEndpointMissingToken(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	if rec := performGet(r, "/me", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMeEndpointExpiredToken(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	claims := jwt.RegisteredClaims{
		Subject:   "user@example.com",
		ExpiresAt: jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	rec := performGet(r, "/me", expired)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "Token expired" {
		t.Fatalf("unexpected detail: %v", body)
	}
}

func TestGoogleLoginNotConfigured(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	if rec := performGet(r, "/auth/google", ""); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
