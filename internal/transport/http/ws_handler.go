package http

import (
	"context"
	"encoding/json"
	"net/http"

	"cricket-stats-game/internal/app"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

func NewWSHandler(service *app.GameService, logger zerolog.Logger) *WSHandler {
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

type guessPayload struct {
	Value *float64 `json:"value"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and runs one game per connection.
// Query parameters: date (YYYY-MM-DD, default today) and an optional gameId.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	gameID := r.URL.Query().Get("gameId")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()

	ctx := r.Context()
	started, release, err := h.service.Open(ctx, gameID, date)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	gameID = started.GameID
	// A reconnect under the same gameId owns the game from here; leave it alone on close.
	defer release()

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})

	// Single writer; gorilla connections do not support concurrent writes.
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug().Err(err).Str("gameId", gameID).Msg("ws write error")
				return
			}
		}
	}()

	send <- outboundMessage{Type: "started", Payload: started}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		send <- h.handle(ctx, gameID, inbound)
	}

	close(send)
	<-writerDone
}

func (h *WSHandler) handle(ctx context.Context, gameID string, inbound inboundMessage) outboundMessage {
	switch inbound.Type {
	case "guess":
		var payload guessPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Value == nil {
			return errorMessage("invalid guess payload")
		}
		result, err := h.service.Submit(ctx, gameID, *payload.Value)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage{Type: "result", Payload: result}
	case "restart":
		state, err := h.service.Restart(ctx, gameID)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage{Type: "started", Payload: state}
	case "state":
		state, err := h.service.State(ctx, gameID)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage{Type: "state", Payload: state}
	case "summary":
		summary, err := h.service.Summary(ctx, gameID)
		if err != nil {
			return errorMessage(err.Error())
		}
		return outboundMessage{Type: "summary", Payload: summary}
	default:
		return errorMessage("unsupported message type")
	}
}

func errorMessage(msg string) outboundMessage {
	return outboundMessage{Type: "error", Payload: errorPayload{Message: msg}}
}
