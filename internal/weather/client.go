package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"skycast/internal/domain"
)

// Client define la interfaz hacia el proveedor de clima.
type Client interface {
	Current(ctx context.Context, city string) (domain.WeatherSnapshot, error)
}

// ErrNotFound marca ciudad desconocida o error del proveedor.
var ErrNotFound = errors.New("city not found")

// NotFoundError envuelve el mensaje del proveedor tal cual llegó.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// HTTPClient implementa Client contra la API de weatherapi.com.
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPClient construye un cliente apuntando al endpoint de condiciones
// actuales. Cada consulta es un fetch en vivo: sin caché ni reintentos.
func NewHTTPClient(baseURL, apiKey string, logger *zap.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = "http://api.weatherapi.com/v1"
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

func (c *HTTPClient) Current(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("key", c.apiKey)
	params.Set("q", city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/current.json?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != 200 {
		if c.logger != nil {
			c.logger.Warn("weather provider error",
				zap.Int("status", resp.StatusCode),
				zap.String("city", city),
			)
		}
		return domain.WeatherSnapshot{}, &NotFoundError{Message: providerMessage(respBody)}
	}

	var cr currentResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("unmarshal response: %w", err)
	}

	// Los valores pasan verbatim: sin conversión de unidades ni redondeo.
	return domain.WeatherSnapshot{
		City:      cr.Location.Name,
		Country:   cr.Location.Country,
		TempC:     cr.Current.TempC,
		Condition: cr.Current.Condition.Text,
		Icon:      cr.Current.Condition.Icon,
		Humidity:  cr.Current.Humidity,
		Pressure:  cr.Current.PressureMb,
		WindKPH:   cr.Current.WindKph,
	}, nil
}

func providerMessage(body []byte) string {
	var er errorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error.Message != "" {
		return er.Error.Message
	}
	return "City not found"
}

type currentResponse struct {
	Location struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"location"`
	Current struct {
		TempC      float64 `json:"temp_c"`
		Humidity   int     `json:"humidity"`
		WindKph    float64 `json:"wind_kph"`
		PressureMb float64 `json:"pressure_mb"`
		Condition  struct {
			Text string `json:"text"`
			Icon string `json:"icon"`
		} `json:"condition"`
	} `json:"current"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}
