package server

import (
	"errors"

	"familynest/internal/models"
	"familynest/internal/weather"

	"github.com/gofiber/fiber/v2"
)

// GetWeatherForecast handles GET /api/weather/forecast?city=&units=
//
// The server proxies the upstream provider so the API key never reaches
// the client. Upstream error codes are translated into this API's own
// statuses; transport failures were already retried by the client before
// they surface here.
func (s *Server) GetWeatherForecast(c *fiber.Ctx) error {
	city := c.Query("city")
	if city == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewMissingFieldError("City is required"))
	}
	units := c.Query("units", "metric")

	forecast, err := s.weather.GetForecast(c.Context(), city, units)
	if err != nil {
		switch {
		case errors.Is(err, weather.ErrDisabled):
			return models.RespondWithError(c, fiber.StatusServiceUnavailable,
				&models.AppError{Code: "WEATHER_DISABLED", Message: "Weather service is not configured"})
		case errors.Is(err, weather.ErrCityNotFound):
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("City not found. Please check the city name and try again."))
		case errors.Is(err, weather.ErrBadAPIKey):
			return models.RespondWithError(c, fiber.StatusBadGateway,
				&models.AppError{Code: "UPSTREAM_ERROR", Message: "Weather provider rejected the API key"})
		case errors.Is(err, weather.ErrRateLimited):
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				&models.AppError{Code: "UPSTREAM_THROTTLED", Message: "Too many requests. Please try again later."})
		default:
			return models.RespondWithError(c, fiber.StatusBadGateway,
				&models.AppError{Code: "UPSTREAM_ERROR", Message: "Weather provider is unavailable", Err: err})
		}
	}

	return c.JSON(forecast)
}
