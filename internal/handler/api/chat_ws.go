package api

import (
	"context"
	"errors"
	"time"

	"FinDash/internal/domain/models"
	xhttp "FinDash/pkg/http"
	xlogger "FinDash/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	wsWriteWait    = 10 * time.Second
	wsMaxFrameSize = 8 << 10

	roleError = "error"
)

// wsFrame is the JSON shape of every outgoing websocket message.
type wsFrame struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Stream upgrades to a websocket bound to one session. Each text frame is a
// question; each reply is a wsFrame. The session must exist before upgrade.
func (h *ChatEchoHandler) Stream(c echo.Context) error {
	req := &models.SessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	ctx := c.Request().Context()
	if _, err := h.chat.History(ctx, req.ID); err != nil {
		return h.fail(c, err)
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("chat ws upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()
	conn.SetReadLimit(wsMaxFrameSize)

	log := h.logger.With(xlogger.String("session", req.ID))
	log.Debug("chat ws connected")

	for {
		mt, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("chat ws read", xlogger.Error(err))
			}
			return nil
		}
		if mt != websocket.TextMessage {
			continue
		}

		frame, fatal := h.answer(ctx, req.ID, string(b))
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		if err := conn.WriteJSON(frame); err != nil {
			log.Warn("chat ws write", xlogger.Error(err))
			return nil
		}
		if fatal {
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.ClosePolicyViolation, frame.Content),
				time.Now().Add(wsWriteWait))
			return nil
		}
	}
}

// answer produces the reply frame for one question. fatal is set when the
// session is gone and the socket should close.
func (h *ChatEchoHandler) answer(ctx context.Context, id, question string) (wsFrame, bool) {
	if !h.limiter.Allow(id) {
		return wsFrame{Role: roleError, Content: "Too many messages, slow down."}, false
	}
	reply, err := h.chat.Send(ctx, id, question)
	if err == nil {
		return wsFrame{Role: string(reply.Reply.Role), Content: reply.Reply.Content}, false
	}

	var appErr *xhttp.AppError
	if errors.As(toAppError(err), &appErr) {
		return wsFrame{Role: roleError, Content: appErr.Message}, errors.Is(err, models.ErrSessionNotFound)
	}
	h.logger.Error("chat ws usecase error", xlogger.Error(err))
	return wsFrame{Role: roleError, Content: "Something went wrong"}, false
}
