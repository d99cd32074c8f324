package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/joinquran/backend/core"
	prayersvc "github.com/joinquran/backend/services/prayer"
)

type prayerApi struct {
	svc *prayersvc.Service
}

func registerPrayerAPI(g *echo.Group, svc *prayersvc.Service) {
	api := prayerApi{svc: svc}
	g.GET("/prayer-times", api.timings)
}

func (api *prayerApi) timings(ctx echo.Context) error {
	lat := core.CleanString(ctx.QueryParam("lat"))
	lng := core.CleanString(ctx.QueryParam("lng"))
	if lat == "" || lng == "" {
		return core.NewValidationError(nil,
			core.FieldError{Field: "lat", Error: "latitude and longitude are required"},
			core.FieldError{Field: "lng", Error: "latitude and longitude are required"},
		)
	}

	timings, err := api.svc.Timings(ctx.Request().Context(), lat, lng)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadGateway, "prayer times lookup failed").SetInternal(err)
	}
	return ctx.JSON(http.StatusOK, timings)
}
