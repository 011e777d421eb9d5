package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"geoquiz-service/internal/app"
	"geoquiz-service/internal/domain"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type eventPayload struct {
	Event domain.Event `json:"event"`
}

type verdictPayload struct {
	Index   int            `json:"index"`
	Verdict domain.Verdict `json:"verdict"`
	Message string         `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session.
// Reconnecting with the same session id resumes at the saved question.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	bankID := r.URL.Query().Get("bank")
	sessionID := r.URL.Query().Get("session")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	view, err := h.service.Start(r.Context(), bankID, sessionID)
	if err != nil {
		h.writeError(conn, err)
		return
	}
	log := h.logger.With(zap.String("session_id", view.SessionID))
	log.Debug("ws session opened", zap.String("bank_id", view.BankID))
	defer log.Debug("ws session closed")

	if err := conn.WriteJSON(outboundMessage[domain.View]{Type: "session", Payload: view}); err != nil {
		return
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("ws read ended", zap.Error(err))
			}
			return
		}

		var reply any
		switch inbound.Type {
		case "event":
			var payload eventPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply = errorMessage(errors.New("invalid event payload"))
				break
			}
			reply = h.dispatch(r, view.SessionID, payload.Event)
		case "current":
			current, err := h.service.Current(r.Context(), view.SessionID)
			if err != nil {
				reply = errorMessage(err)
				break
			}
			reply = outboundMessage[domain.View]{Type: "question", Payload: current}
		default:
			reply = errorMessage(errors.New("unsupported message type"))
		}

		if err := conn.WriteJSON(reply); err != nil {
			log.Warn("ws write error", zap.Error(err))
			return
		}
	}
}

func (h *WSHandler) dispatch(r *http.Request, sessionID string, event domain.Event) any {
	outcome, err := h.service.Handle(r.Context(), sessionID, event)
	if err != nil {
		return errorMessage(err)
	}
	if outcome.Verdict != nil {
		return outboundMessage[verdictPayload]{Type: "verdict", Payload: verdictPayload{
			Index:   outcome.View.Index,
			Verdict: *outcome.Verdict,
			Message: outcome.Verdict.Message(),
		}}
	}
	return outboundMessage[domain.View]{Type: "question", Payload: outcome.View}
}

func (h *WSHandler) writeError(conn *websocket.Conn, err error) {
	_ = conn.WriteJSON(errorMessage(err))
}

func errorMessage(err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}

// NewMux wires the health check and websocket routes.
func NewMux(ws *WSHandler) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", ws.ServeWS)
	return mux
}
