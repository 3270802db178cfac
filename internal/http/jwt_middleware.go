package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"skycast/internal/service"
)

const authSubjectKey = "auth_subject"

// BearerAuthMiddleware valida el bearer token y guarda el subject (email)
// en el contexto. Un token vencido y uno inválido responden ambos 401, con
// detalle distinto.
func BearerAuthMiddleware(jwtSvc *service.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtSvc == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "jwt not configured"})
			c.Abort()
			return
		}

		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		subject, err := jwtSvc.VerifyToken(token)
		if err != nil {
			detail := "Invalid token"
			if errors.Is(err, service.ErrTokenExpired) {
				detail = "Token expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"detail": detail})
			c.Abort()
			return
		}

		c.Set(authSubjectKey, subject)
		c.Next()
	}
}

// GetAuthSubject obtiene el subject del token desde el contexto.
func GetAuthSubject(c *gin.Context) (string, bool) {
	val, ok := c.Get(authSubjectKey)
	if !ok {
		return "", false
	}
	subject, ok := val.(string)
	return subject, ok
}
