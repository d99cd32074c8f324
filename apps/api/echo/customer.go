package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joinquran/backend/core/customer"
)

type customerApi struct {
	svc *customer.Service
}

func registerCustomerAPI(g *echo.Group, svc *customer.Service) {
	api := customerApi{svc: svc}

	cg := g.Group("/customers")
	cg.POST("/signup", api.signup)
	cg.POST("/login", api.login)
}

type CustomerLoginResponse struct {
	Token    string            `json:"token"`
	Customer customer.Customer `json:"customer"`
}

// Handlers

func (api *customerApi) signup(ctx echo.Context) error {
	var data customer.NewCustomer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCustomer")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cust, err := api.svc.Register(ctx.Request().Context(), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, cust)
}

func (api *customerApi) login(ctx echo.Context) error {
	var data customer.Credentials
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Credentials")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cust, err := api.svc.Authenticate(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		switch errors.Cause(err) {
		case customer.ErrAuthFailed:
			return errAuthenticationFailed
		case customer.ErrAccountInactive:
			return errAccountInactive
		}
		return errors.Wrap(err, "authenticating customer")
	}

	return ctx.JSON(http.StatusOK, CustomerLoginResponse{
		Token:    generateSessionToken(cust.ID),
		Customer: cust,
	})
}
