package api

import (
	"net/http"

	"FinDash/internal/domain/models"
	"FinDash/internal/service/ratelimit"
	"FinDash/internal/usecase"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// ChatEchoHandler exposes chat sessions over REST and a websocket.
// Messages are rate limited per session.
type ChatEchoHandler struct {
	logger   *xlogger.Logger
	chat     *usecase.Chat
	limiter  *ratelimit.Limiter
	upgrader websocket.Upgrader
}

func NewChatEchoHandler(logger *xlogger.Logger, chat *usecase.Chat, limiter *ratelimit.Limiter) *ChatEchoHandler {
	return &ChatEchoHandler{
		logger:  logger,
		chat:    chat,
		limiter: limiter,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *ChatEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/chat/sessions")
	g.POST("", h.Create)
	g.GET("/:id", h.History)
	g.POST("/:id/messages", h.Send)

	e.GET("/ws/chat/:id", h.Stream)
}

func (h *ChatEchoHandler) Create(c echo.Context) error {
	s, err := h.chat.CreateSession(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.CreatedResponse(c, s)
}

func (h *ChatEchoHandler) History(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	s, err := h.chat.History(c.Request().Context(), req.ID)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, s)
}

func (h *ChatEchoHandler) Send(c echo.Context) error {
	req := &models.ChatMessageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// Unknown sessions never get a bucket.
	if _, err := h.chat.History(c.Request().Context(), req.ID); err != nil {
		return h.fail(c, err)
	}
	if !h.limiter.Allow(req.ID) {
		h.logger.Warn("chat rate_limited", xlogger.String("session", req.ID))
		return xhttp.AppErrorResponse(c, xhttp.TooManyRequestsError("Too many messages, slow down."))
	}
	reply, err := h.chat.Send(c.Request().Context(), req.ID, req.Content)
	if err != nil {
		return h.fail(c, err)
	}
	return xhttp.SuccessResponse(c, reply)
}

func (h *ChatEchoHandler) fail(c echo.Context, err error) error {
	mapped := toAppError(err)
	if mapped == err {
		h.logger.Error("chat usecase error", xlogger.Error(err))
	}
	return xhttp.AppErrorResponse(c, mapped)
}
