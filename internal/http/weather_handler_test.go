package http

import (
	"net/http"
	"testing"

	"skycast/internal/domain"
	"skycast/internal/weather"
)

func TestWeatherEndpoint(t *testing.T) {
	client := &weather.MockClient{
		Snapshot: domain.WeatherSnapshot{
			City:      "London",
			Country:   "United Kingdom",
			TempC:     11.5,
			Condition: "Partly cloudy",
			Icon:      "//cdn.weatherapi.com/icon.png",
			Humidity:  82,
			Pressure:  1012.0,
			WindKPH:   13.7,
		},
	}
	r, _ := setupRouter(&mockUserRepo{}, client)

	rec := performGet(r, "/weather?city=London", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body := decodeBody(t, rec)
	for _, field := range []string{"city", "country", "temp_c", "condition", "icon", "humidity", "pressure", "wind_kph"} {
		if _, ok := body[field]; !ok {
			t.Fatalf("missing field %q in %v", field, body)
		}
	}
	if body["temp_c"] != 11.5 {
		t.Fatalf("unexpected temp_c: %v", body["temp_c"])
	}
}

func TestWeatherEndpointUnknownCity(t *testing.T) {
	client := &weather.MockClient{
		Err: &weather.NotFoundError{Message: "No matching location found."},
	}
	r, _ := setupRouter(&mockUserRepo{}, client)

	rec := performGet(r, "/weather?city=Qwxyz123", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if body := decodeBody(t, rec); body["detail"] != "No matching location found." {
		t.Fatalf("expected provider message verbatim, got %v", body)
	}
}

func TestWeatherEndpointMissingCity(t *testing.T) {
	r, _ := setupRouter(&mockUserRepo{}, &weather.MockClient{})

	rec := performGet(r, "/weather", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
