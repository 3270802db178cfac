package http

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skycast/internal/service"
)

// AuthHandler mantiene dependencias para endpoints de autenticación.
type AuthHandler struct {
	logger         *zap.Logger
	authServ       *service.AuthService
	jwtServ        *service.JWTService
	google         *service.GoogleAuthenticator
	frontendOrigin string
}

// NewAuthHandler crea una instancia de AuthHandler con dependencias necesarias.
func NewAuthHandler(logger *zap.Logger, authServ *service.AuthService, jwtServ *service.JWTService, google *service.GoogleAuthenticator, frontendOrigin string) *AuthHandler {
	return &AuthHandler{
		logger:         logger,
		authServ:       authServ,
		jwtServ:        jwtServ,
		google:         google,
		frontendOrigin: frontendOrigin,
	}
}

// Signup maneja POST /signup (form: email?, mobile?, password).
func (h *AuthHandler) Signup(c *gin.Context) {
	input := service.SignupInput{
		Email:    c.PostForm("email"),
		Mobile:   c.PostForm("mobile"),
		Password: c.PostForm("password"),
	}

	_, err := h.authServ.Signup(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIdentifierRequired):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Email or mobile required"})
		case errors.Is(err, service.ErrPasswordRequired):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Password required"})
		case errors.Is(err, service.ErrUserExists):
			c.JSON(http.StatusBadRequest, gin.H{"detail": "User already exists"})
		default:
			h.logger.Error("signup failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not register user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

// Token maneja POST /token (form: username, password). El username acepta
// email o mobile indistintamente.
func (h *AuthHandler) Token(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.authServ.PasswordLogin(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Invalid credentials"})
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not login"})
		return
	}

	// El subject del token es siempre el email de la cuenta, aunque el
	// login haya entrado por mobile.
	token, err := h.jwtServ.IssueToken(user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// GoogleLogin maneja GET /auth/google: redirige al consentimiento.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	authURL, err := h.google.AuthURL()
	if err != nil {
		if errors.Is(err, service.ErrOAuthNotConfigured) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Google login not configured"})
			return
		}
		h.logger.Error("auth url failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not start Google login"})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback maneja GET /auth/google/callback. En éxito redirige al
// frontend con token y email como query params; el token viaja en la URL
// tal como lo espera el frontend (transición de adopción de sesión).
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	user, err := h.google.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOAuthNotConfigured):
			c.JSON(http.StatusServiceUnavailable, gin.H{"detail": "Google login not configured"})
		case errors.Is(err, service.ErrOAuthState), errors.Is(err, service.ErrOAuthExchange):
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Google login failed"})
		default:
			h.logger.Error("google callback failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not complete Google login"})
		}
		return
	}

	token, err := h.jwtServ.IssueToken(user.Email)
	if err != nil {
		h.logger.Error("token issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not issue token"})
		return
	}

	params := url.Values{}
	params.Set("token", token)
	params.Set("email", user.Email)
	c.Redirect(http.StatusFound, h.frontendOrigin+"?"+params.Encode())
}

// Me maneja GET /me: resuelve el subject del token a su usuario.
func (h *AuthHandler) Me(c *gin.Context) {
	subject, ok := GetAuthSubject(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}

	user, err := h.authServ.ResolveSubject(c.Request.Context(), subject)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
			return
		}
		h.logger.Error("resolve subject failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not resolve user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
