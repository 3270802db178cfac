package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"skycast/internal/domain"
)

// APIError es un fallo que el backend reportó con status y detail; el
// frontend muestra Detail verbatim. Cualquier otro error es de transporte
// y se presenta con un aviso genérico.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return e.Detail
}

// APIClient habla con el backend desde el frontend web.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Login llama a POST /token y devuelve el access token.
func (c *APIClient) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.postForm(ctx, "/token", form, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// Signup llama a POST /signup. Email o mobile van según el método elegido.
func (c *APIClient) Signup(ctx context.Context, email, mobile, password string) error {
	form := url.Values{}
	if email != "" {
		form.Set("email", email)
	}
	if mobile != "" {
		form.Set("mobile", mobile)
	}
	form.Set("password", password)

	return c.postForm(ctx, "/signup", form, nil)
}

// Weather llama a GET /weather?city=.
func (c *APIClient) Weather(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	params := url.Values{}
	params.Set("city", city)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/weather?"+params.Encode(), nil)
	if err != nil {
		return domain.WeatherSnapshot{}, err
	}

	var snapshot domain.WeatherSnapshot
	if err := c.do(req, &snapshot); err != nil {
		return domain.WeatherSnapshot{}, err
	}
	return snapshot, nil
}

// GoogleLoginURL es el enlace "Login with Google" que muestra la página.
func (c *APIClient) GoogleLoginURL() string {
	return c.baseURL + "/auth/google"
}

func (c *APIClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *APIClient) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != 200 {
		var apiErr struct {
			Detail string `json:"detail"`
		}
		detail := "Request failed"
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Detail != "" {
			detail = apiErr.Detail
		}
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}
