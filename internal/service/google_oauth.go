package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"skycast/internal/domain"
	"skycast/internal/repository"
)

// GoogleAuthenticator media el login federado con Google: URL de
// consentimiento, canje del código de autorización y aprovisionamiento
// find-or-create del usuario por email verificado.
type GoogleAuthenticator struct {
	logger      *zap.Logger
	users       repository.UserRepository
	states      StateStore
	oauthCfg    *oauth2.Config
	userinfoURL string
}

var (
	ErrOAuthNotConfigured = errors.New("google login not configured")
	ErrOAuthState         = errors.New("invalid oauth state")
	ErrOAuthExchange      = errors.New("oauth exchange failed")
)

// stateTTL limita la vida de cada nonce de estado entre redirect y callback.
const stateTTL = 10 * time.Minute

const defaultUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

func NewGoogleAuthenticator(logger *zap.Logger, users repository.UserRepository, states StateStore, clientID, clientSecret, redirectURL string) *GoogleAuthenticator {
	if states == nil {
		states = NewMemoryStateStore()
	}
	return &GoogleAuthenticator{
		logger: logger,
		users:  users,
		states: states,
		oauthCfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     googleEndpoint,
		},
		userinfoURL: defaultUserinfoURL,
	}
}

// Configured indica si hay credenciales de cliente cargadas. Su ausencia
// degrada solo el login federado, no el resto del servicio.
func (g *GoogleAuthenticator) Configured() bool {
	return g.oauthCfg.ClientID != "" && g.oauthCfg.ClientSecret != ""
}

// AuthURL registra un nonce de estado y devuelve la URL de consentimiento.
func (g *GoogleAuthenticator) AuthURL() (string, error) {
	if !g.Configured() {
		return "", ErrOAuthNotConfigured
	}
	state := uuid.NewString()
	if err := g.states.Put(state, stateTTL); err != nil {
		return "", err
	}
	return g.oauthCfg.AuthCodeURL(state), nil
}

// HandleCallback valida el estado, canjea el código, lee el email
// verificado del userinfo y devuelve el usuario (creándolo sin contraseña
// la primera vez). El aprovisionamiento es idempotente por email.
func (g *GoogleAuthenticator) HandleCallback(ctx context.Context, state, code string) (domain.User, error) {
	if !g.Configured() {
		return domain.User{}, ErrOAuthNotConfigured
	}

	ok, err := g.states.Consume(state)
	if err != nil || !ok {
		return domain.User{}, ErrOAuthState
	}

	token, err := g.oauthCfg.Exchange(ctx, code)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("oauth code exchange failed", zap.Error(err))
		}
		return domain.User{}, ErrOAuthExchange
	}

	email, err := g.fetchEmail(ctx, token)
	if err != nil {
		return domain.User{}, err
	}

	return g.findOrCreate(ctx, email)
}

func (g *GoogleAuthenticator) fetchEmail(ctx context.Context, token *oauth2.Token) (string, error) {
	resp, err := g.oauthCfg.Client(ctx, token).Get(g.userinfoURL)
	if err != nil {
		return "", fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read userinfo: %w", err)
	}
	if resp.StatusCode != 200 {
		if g.logger != nil {
			g.logger.Warn("userinfo error", zap.Int("status", resp.StatusCode))
		}
		return "", ErrOAuthExchange
	}

	var info struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return "", fmt.Errorf("unmarshal userinfo: %w", err)
	}
	email := strings.TrimSpace(info.Email)
	if email == "" {
		return "", ErrOAuthExchange
	}
	return email, nil
}

func (g *GoogleAuthenticator) findOrCreate(ctx context.Context, email string) (domain.User, error) {
	user, err := g.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return domain.User{}, err
	}

	// Cuenta federada: email presente, sin hash de contraseña.
	user, err = g.users.Create(ctx, domain.User{Email: email})
	if errors.Is(err, repository.ErrDuplicate) {
		// Carrera con otro callback por el mismo email: la fila ya existe.
		return g.users.GetByEmail(ctx, email)
	}
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}
