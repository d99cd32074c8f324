package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joinquran/backend/core/review"
)

type reviewApi struct {
	svc *review.Service
}

func registerReviewAPI(g *echo.Group, admin echo.MiddlewareFunc, svc *review.Service) {
	api := reviewApi{svc: svc}

	// public: approved testimonials + submissions from the site
	g.GET("/reviews", api.queryApproved)
	g.POST("/reviews", api.create)

	// moderation
	ag := g.Group("/admin/reviews", admin)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

// Handlers

func (api *reviewApi) queryApproved(ctx echo.Context) error {
	revs, err := api.svc.QueryApproved(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying approved reviews")
	}
	return ctx.JSON(http.StatusOK, revs)
}

func (api *reviewApi) query(ctx echo.Context) error {
	revs, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reviews")
	}
	return ctx.JSON(http.StatusOK, revs)
}

func (api *reviewApi) create(ctx echo.Context) error {
	var data review.NewReview
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReview")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	rev, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating review")
	}
	return ctx.JSON(http.StatusCreated, rev)
}

func (api *reviewApi) update(ctx echo.Context) error {
	var patch map[string]interface{}
	if err := ctx.Bind(&patch); err != nil {
		return errors.Wrap(err, "binding review patch")
	}

	rev, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), patch)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, rev)
}

func (api *reviewApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting review")
	}
	return ctx.NoContent(http.StatusNoContent)
}
