package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/agriweather-dashboard/internal/geocode"
	"github.com/i474232898/agriweather-dashboard/internal/observability"
	"github.com/i474232898/agriweather-dashboard/internal/view"
	"github.com/i474232898/agriweather-dashboard/internal/weather"
)

// StaleHeader is set on responses served from cache after a backend failure.
const StaleHeader = "X-Advisory-Stale"

const unavailableMessage = "Weather service is temporarily unavailable."

var validate = validator.New()

// Handlers serves advisory payloads and the dashboards derived from them.
type Handlers struct {
	Service     *weather.Service
	Builder     *view.Builder
	Resolver    geocode.Resolver
	DefaultCrop string
	Metrics     *observability.Metrics // optional
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handlers) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/summary", func(c *fiber.Ctx) error {
		res, err := h.summary(c)
		if err != nil {
			return err
		}
		return respond(c, res, res.Payload)
	})

	v1.Get("/advisories/latest", func(c *fiber.Ctx) error {
		res, err := h.latest(c)
		if err != nil {
			return err
		}
		return respond(c, res, res.Payload)
	})

	v1.Get("/dashboard/summary", func(c *fiber.Ctx) error {
		res, err := h.summary(c)
		if err != nil {
			return err
		}
		return respond(c, res, h.build(res))
	})

	v1.Get("/dashboard/latest", func(c *fiber.Ctx) error {
		res, err := h.latest(c)
		if err != nil {
			return err
		}
		return respond(c, res, h.build(res))
	})

	app.Get("/dashboard/latest", func(c *fiber.Ctx) error {
		res, err := h.latest(c)
		if err != nil {
			return err
		}
		if res.Stale {
			c.Set(StaleHeader, "true")
		}
		c.Type("html", "utf-8")
		return view.RenderGauges(c, h.build(res))
	})
}

func (h *Handlers) summary(c *fiber.Ctx) (weather.Result, error) {
	q, err := parseSummaryQuery(c)
	if err != nil {
		return weather.Result{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := h.resolveLocation(c, q)
	if err != nil {
		return weather.Result{}, err
	}

	crop := strings.TrimSpace(q.Crop)
	if crop == "" {
		crop = h.DefaultCrop
	}

	res, err := h.Service.Summary(c.UserContext(), weather.SummaryRequest{Location: loc, Crop: crop})
	if err != nil {
		return weather.Result{}, fiber.NewError(fiber.StatusBadGateway, unavailableMessage)
	}
	return res, nil
}

func (h *Handlers) latest(c *fiber.Ctx) (weather.Result, error) {
	res, err := h.Service.Latest(c.UserContext())
	if err != nil {
		return weather.Result{}, fiber.NewError(fiber.StatusBadGateway, unavailableMessage)
	}
	return res, nil
}

func (h *Handlers) resolveLocation(c *fiber.Ctx, q summaryQuery) (weather.Location, error) {
	if q.Latitude != nil && q.Longitude != nil {
		return weather.Location{Latitude: *q.Latitude, Longitude: *q.Longitude}, nil
	}

	resolver := h.Resolver
	if resolver == nil {
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required")
	}
	loc, err := resolver.Resolve(c.UserContext(), q.City, q.Country)
	switch {
	case errors.Is(err, geocode.ErrDisabled):
		return weather.Location{}, fiber.NewError(fiber.StatusBadRequest, "latitude and longitude are required; place lookup is not configured")
	case errors.Is(err, geocode.ErrNoMatch):
		return weather.Location{}, fiber.NewError(fiber.StatusNotFound, "no coordinates found for requested place")
	case err != nil:
		return weather.Location{}, fiber.NewError(fiber.StatusBadGateway, "place lookup failed")
	}
	return loc, nil
}

func (h *Handlers) build(res weather.Result) view.Dashboard {
	d := h.Builder.Build(res.Payload)
	d.Stale = res.Stale
	if h.Metrics != nil {
		h.Metrics.DashboardsRendered.Inc()
		h.Metrics.InsightsExtracted.Observe(float64(len(d.Insights)))
	}
	return d
}

func respond(c *fiber.Ctx, res weather.Result, body any) error {
	if res.Stale {
		c.Set(StaleHeader, "true")
	}
	return c.JSON(body)
}

// summaryQuery holds query parameters for the summary endpoints. Coordinates win over
// a place name when both are given.
type summaryQuery struct {
	Latitude  *float64 `validate:"required_without=City,omitempty,gte=-90,lte=90"`
	Longitude *float64 `validate:"required_without=City,omitempty,gte=-180,lte=180"`
	Crop      string   `validate:"max=32"`
	City      string   `validate:"max=100"`
	Country   string   `validate:"max=100"`
}

func parseSummaryQuery(c *fiber.Ctx) (summaryQuery, error) {
	var q summaryQuery

	var err error
	if q.Latitude, err = parseFloatQuery(c, "latitude"); err != nil {
		return q, err
	}
	if q.Longitude, err = parseFloatQuery(c, "longitude"); err != nil {
		return q, err
	}
	q.Crop = c.Query("crop")
	q.City = strings.TrimSpace(c.Query("city"))
	q.Country = strings.TrimSpace(c.Query("country"))

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	if (q.Latitude == nil) != (q.Longitude == nil) {
		return q, errors.New("latitude and longitude must be provided together")
	}

	return q, nil
}

func parseFloatQuery(c *fiber.Ctx, key string) (*float64, error) {
	s := strings.TrimSpace(c.Query(key))
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, errors.New("invalid " + key + "; use decimal degrees")
	}
	return &f, nil
}
