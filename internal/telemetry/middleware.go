package telemetry

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Middleware starts a span per HTTP request, propagating any incoming trace
// context from the request headers.
func Middleware(serviceName string) fiber.Handler {
	tracer := otel.Tracer(serviceName)
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		ctx := propagator.Extract(c.Context(), &headerCarrier{c: c})

		spanName := c.Method() + " " + c.Path()
		ctx, span := tracer.Start(ctx, spanName,
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.url", c.OriginalURL()),
				attribute.String("http.remote_addr", c.IP()),
			),
		)
		defer span.End()

		c.Locals("otel.ctx", ctx)

		err := c.Next()

		status := c.Response().StatusCode()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if status >= 400 {
			span.SetStatus(codes.Error, "HTTP "+strconv.Itoa(status))
		} else {
			span.SetStatus(codes.Ok, "")
		}
		return err
	}
}

// headerCarrier adapts the Fiber request headers to the OpenTelemetry
// propagation carrier interface.
type headerCarrier struct {
	c *fiber.Ctx
}

func (hc *headerCarrier) Get(key string) string {
	return hc.c.Get(key)
}

func (hc *headerCarrier) Set(key, value string) {
	hc.c.Set(key, value)
}

func (hc *headerCarrier) Keys() []string {
	keys := make([]string, 0)
	hc.c.Request().Header.VisitAll(func(key, value []byte) {
		keys = append(keys, string(key))
	})
	return keys
}
