package websocket

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/tictactoe"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

const (
	ActionState   = "game:state"
	ActionMove    = "game:move"
	ActionJump    = "game:jump"
	ActionRestart = "game:restart"
	ActionError   = "error"
)

const internalErrorMessage = "internal error"

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	SessionID string          `json:"session_id,omitempty"`
	Game      *tictactoe.View `json:"game,omitempty"`
	Cell      *int            `json:"cell,omitempty"`
	Ply       *int            `json:"ply,omitempty"`
	Error     string          `json:"error,omitempty"`
}

func (that *Server) sendMessage(conn *websocket.Conn, action string, payload Payload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	if err = conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = conn.WriteJSON(Message{Action: action, Payload: payloadJSON}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *Server) sendState(conn *websocket.Conn, view *usecase.SessionView) error {
	return that.sendMessage(conn, ActionState, Payload{
		SessionID: view.ID,
		Game:      &view.Game,
	})
}

func (that *Server) sendErrorResponse(conn *websocket.Conn, action string, err error) error {
	if sendErr := that.sendMessage(conn, action, Payload{Error: errorMessage(err)}); sendErr != nil {
		return fmt.Errorf("failed to send error response: %w", sendErr)
	}

	return nil
}

// errorMessage - client errors are echoed, anything else is hidden.
func errorMessage(err error) string {
	for _, known := range []error{
		apperror.ErrInvalidCell,
		apperror.ErrInvalidPly,
		apperror.ErrInvalidPayload,
		apperror.ErrSessionNotFound,
	} {
		if errors.Is(err, known) {
			return err.Error()
		}
	}

	return internalErrorMessage
}

func decodePayload(msg *Message) (Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return payload, fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err)
	}

	return payload, nil
}
