package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/hotel-weather-analysis/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, st *store.MemoryStore) {
	v1 := app.Group("/api/v1")

	v1.Get("/analysis/latest", func(c *fiber.Ctx) error {
		run, err := st.LatestRun()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no analysis run completed yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load analysis run")
		}

		return c.JSON(fiber.Map{
			"run_id":      run.ID,
			"started_at":  run.StartedAt,
			"finished_at": run.FinishedAt,
			"summary":     run.Summary,
			"excluded":    run.Excluded,
		})
	})

	v1.Get("/analysis/cities", func(c *fiber.Ctx) error {
		run, err := st.LatestRun()
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no analysis run completed yet")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load analysis run")
		}

		return c.JSON(fiber.Map{
			"run_id": run.ID,
			"cities": run.Records,
		})
	})

	v1.Get("/analysis/cities/:country/:city", func(c *fiber.Ctx) error {
		req := cityParams{
			Country: c.Params("country"),
			City:    c.Params("city"),
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		rec, err := st.CityRecord(req.Country, req.City)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested city")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to load city data")
		}

		return c.JSON(rec)
	})
}

// cityParams holds path parameters identifying a city.
type cityParams struct {
	Country string `validate:"required"`
	City    string `validate:"required"`
}
