package weather

import (
	"context"

	"skycast/internal/domain"
)

// MockClient permite tests sin llamar al proveedor real.
type MockClient struct {
	Snapshot domain.WeatherSnapshot
	Err      error
}

func (m *MockClient) Current(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	return m.Snapshot, m.Err
}
