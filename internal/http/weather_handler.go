package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skycast/internal/weather"
)

// WeatherHandler mantiene dependencias para el endpoint de clima.
type WeatherHandler struct {
	logger *zap.Logger
	client weather.Client
}

func NewWeatherHandler(logger *zap.Logger, client weather.Client) *WeatherHandler {
	return &WeatherHandler{
		logger: logger,
		client: client,
	}
}

// GetWeather maneja GET /weather?city=. Ciudad desconocida o error del
// proveedor responden 404 con el mensaje del proveedor como detail.
func (h *WeatherHandler) GetWeather(c *gin.Context) {
	city := strings.TrimSpace(c.Query("city"))
	if city == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "City is required"})
		return
	}

	snapshot, err := h.client.Current(c.Request.Context(), city)
	if err != nil {
		if errors.Is(err, weather.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"detail": err.Error()})
			return
		}
		h.logger.Error("weather fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Could not fetch weather"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}
