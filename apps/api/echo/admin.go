package echoapi

import (
	"net/http"
	"net/mail"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joinquran/backend/core"
)

type adminApi struct {
	conf    *core.Config
	mailSvc core.EmailService
}

func registerAdminAPI(g *echo.Group, admin echo.MiddlewareFunc, conf *core.Config, mailSvc core.EmailService) {
	api := adminApi{conf: conf, mailSvc: mailSvc}

	ag := g.Group("/admin")
	ag.POST("/login", api.login)
	ag.DELETE("/login", api.logout)
	ag.POST("/send-email", api.sendEmail, admin)
}

type AdminLoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *AdminLoginRequest) Validate() error {
	r.Username = core.CleanString(r.Username)
	return core.Validate.Struct(r)
}

type LoginResponse struct {
	Token string `json:"token"`
}

// SendEmailRequest relays a one-off message through the configured email service.
type SendEmailRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Text    string `json:"text" validate:"required_without=HTML"`
	HTML    string `json:"html"`
}

func (r *SendEmailRequest) Validate() error {
	r.To = core.CleanString(r.To, true /* lower */)
	r.Subject = core.CleanString(r.Subject)
	return core.Validate.Struct(r)
}

// Handlers

func (api *adminApi) login(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AdminLoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	admin := api.conf.Admin
	if admin.Password == "" || data.Username != admin.Username || data.Password != admin.Password {
		return errAuthenticationFailed
	}

	token := generateSessionToken(admin.Username)
	ctx.SetCookie(newSessionCookie(api.conf, token, api.conf.Server.SessionMaxAge))
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *adminApi) logout(ctx echo.Context) error {
	ctx.SetCookie(newSessionCookie(api.conf, "", -1))
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) sendEmail(ctx echo.Context) error {
	var data SendEmailRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SendEmailRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	api.mailSvc.SendMessages(&core.EmailMessage{
		To:          []mail.Address{{Address: data.To}},
		Subject:     data.Subject,
		TextContent: data.Text,
		HTMLContent: data.HTML,
	})
	return ctx.JSON(http.StatusAccepted, echo.Map{"message": "email queued"})
}
