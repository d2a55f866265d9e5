package httpapi

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"cityexplorer/internal/explore"
	"cityexplorer/internal/records"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, explorer *explore.Service, recorder *records.Service, gate *Gate) {
	api := app.Group("/api")

	api.Get("/cities", func(c *fiber.Ctx) error {
		q, err := parseSearchQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		cities, err := explorer.SearchCities(c.Context(), q.Query)
		if err != nil {
			return upstreamError(err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    cities,
		})
	})

	api.Get("/cities/:id", func(c *fiber.Ctx) error {
		city, err := explorer.CityByID(c.Context(), c.Params("id"))
		if err != nil {
			return upstreamError(err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    city,
		})
	})

	api.Get("/cities/:id/aggregate", func(c *fiber.Ctx) error {
		city, err := explorer.CityByID(c.Context(), c.Params("id"))
		if err != nil {
			return upstreamError(err)
		}

		bundle, err := explorer.Aggregate(c.Context(), city)
		if err != nil {
			return upstreamError(err)
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    bundle,
		})
	})

	api.Post("/save-city", gate.RequireAuth, func(c *fiber.Ctx) error {
		var rec records.CityRecord
		if err := c.BodyParser(&rec); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		saved, err := recorder.Save(c.Context(), rec, principalFrom(c))
		if err != nil {
			return recordsError(err, "save city data")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"message": "City data saved successfully",
			"data":    saved,
		})
	})

	api.Get("/records", gate.RequireAuth, func(c *fiber.Ctx) error {
		q := records.ListQuery{
			Page:  queryInt(c, "page", 1),
			Limit: queryInt(c, "limit", 50),
			Mine:  c.Query("userId") == "me",
		}

		page, err := recorder.List(c.Context(), q, principalFrom(c))
		if err != nil {
			return recordsError(err, "fetch records")
		}

		return c.JSON(fiber.Map{
			"success":    true,
			"data":       page.Records,
			"pagination": page.Pagination,
		})
	})

	api.Get("/records/:id", gate.RequireAuth, func(c *fiber.Ctx) error {
		rec, err := recorder.Get(c.Context(), c.Params("id"))
		if err != nil {
			return recordsError(err, "fetch record")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    rec,
		})
	})

	api.Delete("/records/:id", gate.RequireAuth, func(c *fiber.Ctx) error {
		if err := recorder.Delete(c.Context(), c.Params("id"), principalFrom(c)); err != nil {
			return recordsError(err, "delete record")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"message": "Record deleted successfully",
		})
	})

	api.Get("/stats", gate.RequireAuth, func(c *fiber.Ctx) error {
		stats, err := recorder.Stats(c.Context(), principalFrom(c))
		if err != nil {
			return recordsError(err, "fetch stats")
		}

		return c.JSON(fiber.Map{
			"success": true,
			"data":    stats,
		})
	})
}

// searchQuery holds the city search parameters.
type searchQuery struct {
	Query string `validate:"required,min=2"`
}

func parseSearchQuery(c *fiber.Ctx) (searchQuery, error) {
	q := searchQuery{Query: c.Query("q")}
	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

func queryInt(c *fiber.Ctx, key string, def int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// upstreamError maps adapter failures to response codes. Rate limits
// keep their own status so the UI can suppress the alert.
func upstreamError(err error) error {
	if errors.Is(err, explore.ErrRateLimited) {
		return fiber.NewError(fiber.StatusTooManyRequests, "upstream rate limit reached")
	}
	return fiber.NewError(fiber.StatusBadGateway, "failed to fetch data from upstream")
}

// recordsError maps store failures to response codes.
func recordsError(err error, action string) error {
	var vErr *records.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fiber.NewError(fiber.StatusBadRequest, vErr.Reason)
	case errors.Is(err, records.ErrUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "database not connected")
	case errors.Is(err, records.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "record not found")
	case errors.Is(err, records.ErrNotOwner):
		return fiber.NewError(fiber.StatusForbidden, "you can only delete your own records")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to "+action)
	}
}
