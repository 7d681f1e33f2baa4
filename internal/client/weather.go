package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// weatherBaseURL is a package variable so tests can point it at a stub.
var weatherBaseURL = "https://api.open-meteo.com"

// Weather is the decorative current-weather widget shown on the dashboard.
// It has no bearing on any other operation.
type Weather struct {
	TemperatureF float64
	WindSpeedMph float64
	Code         int
}

func CurrentWeather(latitude, longitude float64) (*Weather, error) {
	url := fmt.Sprintf(
		"%s/v1/forecast?latitude=%.4f&longitude=%.4f&current_weather=true&temperature_unit=fahrenheit&windspeed_unit=mph&timezone=auto",
		weatherBaseURL, latitude, longitude,
	)

	httpClient := &http.Client{Timeout: 5 * time.Second}

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather service returned status %d", resp.StatusCode)
	}

	var body struct {
		CurrentWeather struct {
			Temperature float64 `json:"temperature"`
			WindSpeed   float64 `json:"windspeed"`
			WeatherCode int     `json:"weathercode"`
		} `json:"current_weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	return &Weather{
		TemperatureF: body.CurrentWeather.Temperature,
		WindSpeedMph: body.CurrentWeather.WindSpeed,
		Code:         body.CurrentWeather.WeatherCode,
	}, nil
}
