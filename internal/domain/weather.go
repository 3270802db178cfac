package domain

// WeatherSnapshot es el valor transitorio devuelto por consulta de clima.
// Los campos llegan tal cual del proveedor: sin conversión de unidades.
type WeatherSnapshot struct {
	City      string  `json:"city"`
	Country   string  `json:"country"`
	TempC     float64 `json:"temp_c"`
	Condition string  `json:"condition"`
	Icon      string  `json:"icon"`
	Humidity  int     `json:"humidity"`
	Pressure  float64 `json:"pressure"`
	WindKPH   float64 `json:"wind_kph"`
}
