package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"dishradar/pkg/dishes"
)

// App bundles the long-lived collaborators every request handler needs: the
// resolution/aggregation service and the channel used to enqueue cache warms.
type App struct {
	Service *dishes.Service
	Queue   *amqp091.Channel
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(service *dishes.Service, queue *amqp091.Channel) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			app := &App{
				Service: service,
				Queue:   queue,
			}
			cc := &AppContext{c, app}
			return next(cc)
		}
	}
}
