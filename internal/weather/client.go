// Package weather fetches and aggregates forecasts from the upstream
// weather provider (OpenWeatherMap 5-day/3-hour forecast API).
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"familynest/internal/models"

	"github.com/avast/retry-go/v4"
)

const (
	requestTimeout = 10 * time.Second
	// maxRetries is the number of retries after the initial attempt.
	maxRetries = 2
	retryDelay = time.Second
)

// Sentinel errors mapped from upstream API status codes. These are never
// retried; only transport failures and timeouts are.
var (
	ErrDisabled     = errors.New("weather: no API key configured")
	ErrCityNotFound = errors.New("weather: city not found")
	ErrBadAPIKey    = errors.New("weather: API key rejected")
	ErrRateLimited  = errors.New("weather: too many requests upstream")
)

// apiError is a non-retryable upstream response with an unexpected status.
type apiError struct {
	status int
	body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("weather: API error (%d): %s", e.status, e.body)
}

// Client fetches forecasts with a bounded timeout, limited retries and a
// small in-memory cache so repeated views of the same city do not hammer
// the upstream provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client

	cacheMu  sync.RWMutex
	cache    map[string]*cacheEntry
	cacheTTL time.Duration
}

type cacheEntry struct {
	forecast  *models.Forecast
	fetchedAt time.Time
}

// NewClient creates a weather client. An empty apiKey disables the client;
// calls then fail with ErrDisabled.
func NewClient(baseURL, apiKey string, cacheTTL time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		cache:      make(map[string]*cacheEntry),
		cacheTTL:   cacheTTL,
	}
}

// Enabled reports whether the client has an API key to work with.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// forecastResponse mirrors the provider's 3-hourly forecast payload.
type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Weather []models.Condition `json:"weather"`
		Wind    struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All int `json:"all"`
		} `json:"clouds"`
		Visibility int     `json:"visibility"`
		Pop        float64 `json:"pop"`
	} `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
		Sunrise int64  `json:"sunrise"`
		Sunset  int64  `json:"sunset"`
	} `json:"city"`
}

// GetForecast fetches the forecast for a city and aggregates it into daily
// summaries. Transport failures and timeouts are retried up to maxRetries
// times with exponential backoff starting at retryDelay; upstream API
// errors (bad city, bad key, throttling) are returned immediately.
func (c *Client) GetForecast(ctx context.Context, city, units string) (*models.Forecast, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if units == "" {
		units = "metric"
	}

	cacheKey := fmt.Sprintf("%s:%s", units, city)
	c.cacheMu.RLock()
	if entry, ok := c.cache[cacheKey]; ok && time.Since(entry.fetchedAt) < c.cacheTTL {
		c.cacheMu.RUnlock()
		return entry.forecast, nil
	}
	c.cacheMu.RUnlock()

	var payload forecastResponse
	err := retry.Do(
		func() error {
			return c.fetch(ctx, city, units, &payload)
		},
		retry.Context(ctx),
		retry.Attempts(maxRetries+1),
		retry.Delay(retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// Only transport-level failures are worth retrying.
			var apiErr *apiError
			if errors.As(err, &apiErr) {
				return false
			}
			return !errors.Is(err, ErrCityNotFound) &&
				!errors.Is(err, ErrBadAPIKey) &&
				!errors.Is(err, ErrRateLimited)
		}),
	)
	if err != nil {
		return nil, err
	}

	forecast := aggregate(&payload)

	c.cacheMu.Lock()
	c.cache[cacheKey] = &cacheEntry{forecast: forecast, fetchedAt: time.Now()}
	c.cacheMu.Unlock()

	return forecast, nil
}

// fetch performs one request against the provider.
func (c *Client) fetch(ctx context.Context, city, units string, dest *forecastResponse) error {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", units)
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		switch resp.StatusCode {
		case http.StatusNotFound:
			return ErrCityNotFound
		case http.StatusUnauthorized:
			return ErrBadAPIKey
		case http.StatusTooManyRequests:
			return ErrRateLimited
		default:
			return &apiError{status: resp.StatusCode, body: string(body)}
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("weather: decode response: %w", err)
	}
	return nil
}

// aggregate folds the 3-hourly samples into one summary per calendar day:
// running min/max temperature, one sample per time-of-day window, the
// afternoon sky condition when present, and the strongest wind seen.
func aggregate(payload *forecastResponse) *models.Forecast {
	days := make(map[string]*models.DayForecast)

	for _, item := range payload.List {
		date, hour, ok := splitTimestamp(item.DtTxt)
		if !ok || len(item.Weather) == 0 {
			continue
		}

		day, exists := days[date]
		if !exists {
			day = &models.DayForecast{
				Date:    date,
				Weather: item.Weather[0],
				Temperature: models.DayTemps{
					Min: item.Main.Temp,
					Max: item.Main.Temp,
				},
				Wind: models.DayWind{
					Max: models.WindSample{Speed: item.Wind.Speed, Direction: item.Wind.Deg},
				},
				Clouds:     models.Clouds{All: item.Clouds.All},
				Visibility: item.Visibility,
				Pop:        item.Pop,
			}
			days[date] = day
		}

		if item.Main.Temp < day.Temperature.Min {
			day.Temperature.Min = item.Main.Temp
		}
		if item.Main.Temp > day.Temperature.Max {
			day.Temperature.Max = item.Main.Temp
		}

		temp := item.Main.Temp
		humidity := item.Main.Humidity
		pressure := item.Main.Pressure
		switch {
		case hour >= 6 && hour < 12:
			day.Temperature.Morning = &temp
			day.Humidity.Morning = &humidity
			day.Pressure.Morning = &pressure
		case hour >= 12 && hour < 18:
			day.Temperature.Afternoon = &temp
			day.Humidity.Afternoon = &humidity
			day.Pressure.Afternoon = &pressure
			// The afternoon sample best represents the day.
			day.Weather = item.Weather[0]
		case hour >= 18 && hour < 24:
			day.Temperature.Evening = &temp
			day.Humidity.Evening = &humidity
			day.Pressure.Evening = &pressure
		default:
			day.Temperature.Night = &temp
			day.Humidity.Night = &humidity
			day.Pressure.Night = &pressure
		}

		if item.Wind.Speed > day.Wind.Max.Speed {
			day.Wind.Max = models.WindSample{Speed: item.Wind.Speed, Direction: item.Wind.Deg}
		}
	}

	forecast := &models.Forecast{
		City: models.ForecastCity{
			Name:    payload.City.Name,
			Country: payload.City.Country,
			Sunrise: payload.City.Sunrise,
			Sunset:  payload.City.Sunset,
		},
		Forecasts: make([]models.DayForecast, 0, len(days)),
	}
	for _, day := range days {
		forecast.Forecasts = append(forecast.Forecasts, *day)
	}
	// ISO dates sort correctly as strings.
	sort.Slice(forecast.Forecasts, func(i, j int) bool {
		return forecast.Forecasts[i].Date < forecast.Forecasts[j].Date
	})
	return forecast
}

// splitTimestamp splits the provider's "2006-01-02 15:04:05" timestamp into
// date and hour.
func splitTimestamp(dtTxt string) (date string, hour int, ok bool) {
	ts, err := time.Parse("2006-01-02 15:04:05", dtTxt)
	if err != nil {
		return "", 0, false
	}
	return dtTxt[:10], ts.Hour(), true
}
