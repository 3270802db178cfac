package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skycast/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	tokenCookie = "session_token"
	userCookie  = "session_user"
	// cookieMaxAge coincide con la vigencia del token (60 minutos).
	cookieMaxAge = 3600
)

// Handler sirve la página del frontend y mantiene la sesión en cookies.
type Handler struct {
	logger *zap.Logger
	api    *APIClient
}

func NewHandler(logger *zap.Logger, api *APIClient) *Handler {
	return &Handler{
		logger: logger,
		api:    api,
	}
}

// NewRouter monta el frontend sobre un engine de Gin con los templates
// embebidos.
func NewRouter(logger *zap.Logger, h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(zapLoggerMiddleware(logger), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	r.GET("/", h.Index)
	r.POST("/login", h.Login)
	r.POST("/signup", h.Signup)
	r.GET("/search", h.Search)
	r.POST("/logout", h.Logout)

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}

// pageData alimenta el template de la página única.
type pageData struct {
	User      string
	LoggedIn  bool
	Error     string
	Notice    string
	City      string
	Snapshot  *domain.WeatherSnapshot
	GoogleURL string
}

// Index maneja GET /. Si llegan token y email como query params y no hay
// sesión activa, los adopta como sesión (así vuelve el redirect de OAuth) y
// redirige a la URL limpia: es una transición de una sola vez, no parsing
// ambiental en cada render.
func (h *Handler) Index(c *gin.Context) {
	if token := c.Query("token"); token != "" {
		if _, err := c.Cookie(tokenCookie); err != nil {
			user := c.Query("email")
			if user == "" {
				user = "google_user"
			}
			h.setSession(c, token, user)
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	h.render(c, pageData{})
}

// Login maneja POST /login contra el backend.
func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	token, err := h.api.Login(c.Request.Context(), username, password)
	if err != nil {
		h.logTransportFailure("login", err)
		h.render(c, pageData{Error: userMessage(err, "Login failed")})
		return
	}

	h.setSession(c, token, username)
	c.Redirect(http.StatusFound, "/")
}

// Signup maneja POST /signup contra el backend. El formulario elige entre
// email y mobile como identificador.
func (h *Handler) Signup(c *gin.Context) {
	identifier := c.PostForm("identifier")
	method := c.PostForm("method")
	password := c.PostForm("password")

	email, mobile := identifier, ""
	if method == "mobile" {
		email, mobile = "", identifier
	}

	if err := h.api.Signup(c.Request.Context(), email, mobile, password); err != nil {
		h.logTransportFailure("signup", err)
		h.render(c, pageData{Error: userMessage(err, "Signup failed")})
		return
	}

	h.render(c, pageData{Notice: "Signup successful. Please log in."})
}

// Search maneja GET /search?city= para sesiones activas.
func (h *Handler) Search(c *gin.Context) {
	if _, _, ok := h.session(c); !ok {
		c.Redirect(http.StatusFound, "/")
		return
	}

	city := c.Query("city")
	if city == "" {
		h.render(c, pageData{})
		return
	}

	snapshot, err := h.api.Weather(c.Request.Context(), city)
	if err != nil {
		h.logTransportFailure("weather fetch", err)
		h.render(c, pageData{City: city, Error: userMessage(err, "Failed to fetch weather")})
		return
	}

	h.render(c, pageData{City: city, Snapshot: &snapshot})
}

// Logout limpia la sesión completa y vuelve a la página inicial.
func (h *Handler) Logout(c *gin.Context) {
	c.SetCookie(tokenCookie, "", -1, "/", "", false, true)
	c.SetCookie(userCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) setSession(c *gin.Context, token, user string) {
	c.SetCookie(tokenCookie, token, cookieMaxAge, "/", "", false, true)
	c.SetCookie(userCookie, user, cookieMaxAge, "/", "", false, true)
}

func (h *Handler) session(c *gin.Context) (token, user string, ok bool) {
	token, err := c.Cookie(tokenCookie)
	if err != nil || token == "" {
		return "", "", false
	}
	user, err = c.Cookie(userCookie)
	if err != nil {
		user = ""
	}
	return token, user, true
}

func (h *Handler) render(c *gin.Context, data pageData) {
	if _, user, ok := h.session(c); ok {
		data.User = user
		data.LoggedIn = true
	}
	data.GoogleURL = h.api.GoogleLoginURL()
	c.HTML(http.StatusOK, "index.html", data)
}

// logTransportFailure registra solo fallos de transporte; los errores con
// detail del backend ya se muestran al usuario.
func (h *Handler) logTransportFailure(op string, err error) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return
	}
	if h.logger != nil {
		h.logger.Warn("backend unreachable", zap.String("op", op), zap.Error(err))
	}
}

// userMessage devuelve el detail del backend verbatim; para fallos de
// transporte o respuesta malformada cae al aviso genérico.
func userMessage(err error, generic string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return generic
}
