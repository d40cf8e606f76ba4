package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/frostline/temp-prediction/internal/forecast"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *forecast.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/predict", func(c *fiber.Ctx) error {
		var req predictRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required")
		}

		resp, err := service.Predict(c.Context(), forecast.PredictionRequest{
			Latitude:     *req.Latitude,
			Longitude:    *req.Longitude,
			LocationName: req.LocationName,
		})
		if err != nil {
			return err
		}

		return c.JSON(resp)
	})
}

// predictRequest is the inbound JSON body. Latitude/longitude are
// pointers so a present zero value passes the required check; range
// validation is the orchestrator's responsibility.
type predictRequest struct {
	Latitude     *float64 `json:"latitude" validate:"required"`
	Longitude    *float64 `json:"longitude" validate:"required"`
	LocationName string   `json:"locationName"`
}

// RequestID tags every request with an X-Request-Id header for log
// correlation. The ID never appears in response bodies.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(fiber.HeaderXRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(fiber.HeaderXRequestID, id)
		c.Locals("requestid", id)
		return c.Next()
	}
}

// ErrorHandler maps domain errors onto HTTP statuses and a structured
// error body. Internal causes never reach the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var de *forecast.Error
	if errors.As(err, &de) {
		return c.Status(statusForKind(de.Kind)).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"kind":    string(de.Kind),
				"message": de.Message,
			},
		})
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"success": false,
			"error": fiber.Map{
				"kind":    "bad_request",
				"message": fe.Message,
			},
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error": fiber.Map{
			"kind":    "internal",
			"message": "internal server error",
		},
	})
}

func statusForKind(kind forecast.Kind) int {
	switch kind {
	case forecast.KindInvalidCoordinates:
		return fiber.StatusBadRequest
	case forecast.KindInsufficientHistory:
		return fiber.StatusUnprocessableEntity
	case forecast.KindUpstreamUnavailable:
		return fiber.StatusBadGateway
	case forecast.KindMalformedUpstreamData, forecast.KindShapeMismatch:
		return fiber.StatusInternalServerError
	default:
		return fiber.StatusInternalServerError
	}
}
