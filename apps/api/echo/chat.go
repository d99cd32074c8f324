package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/joinquran/backend/core"
	chatsvc "github.com/joinquran/backend/services/chat"
)

var errChatUnavailable = echo.NewHTTPError(http.StatusServiceUnavailable, "chat is not available")

type chatApi struct {
	svc *chatsvc.Service
}

func registerChatAPI(g *echo.Group, svc *chatsvc.Service) {
	api := chatApi{svc: svc}
	g.POST("/chat", api.reply)
}

type ChatRequest struct {
	Message string `json:"message" validate:"required"`
}

func (r *ChatRequest) Validate() error {
	r.Message = core.CleanString(r.Message)
	return core.Validate.Struct(r)
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (api *chatApi) reply(ctx echo.Context) error {
	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reply, err := api.svc.Reply(ctx.Request().Context(), data.Message)
	if err != nil {
		if errors.Cause(err) == chatsvc.ErrNotConfigured {
			return errChatUnavailable
		}
		return echo.NewHTTPError(http.StatusBadGateway, "chat request failed").SetInternal(err)
	}
	return ctx.JSON(http.StatusOK, ChatResponse{Reply: reply})
}
