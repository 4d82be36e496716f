package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10

	maxMessageSize = 1024
)

type gameUseCase interface {
	NewSession(ctx context.Context) (*usecase.SessionView, error)
	MakeMove(ctx context.Context, id string, cell int) (*usecase.SessionView, error)
	JumpTo(ctx context.Context, id string, ply int) (*usecase.SessionView, error)
	Restart(ctx context.Context, id string) (*usecase.SessionView, error)
	EndSession(ctx context.Context, id string) error
}

type handlerFunc func(ctx context.Context, sessionID string, msg *Message) (*usecase.SessionView, error)

// Server - every connection owns one game session for as long as it is open.
type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	upgrader    websocket.Upgrader

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, gameUseCase gameUseCase) *Server {
	server := &Server{
		logger:      logger.With("component", "websocket"),
		gameUseCase: gameUseCase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[ActionMove] = server.handleMove
	server.handlers[ActionJump] = server.handleJump
	server.handlers[ActionRestart] = server.handleRestart

	return server
}

// ServeHTTP upgrades the request and plays one session until the client leaves.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()

	created, err := that.gameUseCase.NewSession(ctx)
	if err != nil {
		log.Error("failed to create session", "error", err)
		_ = that.sendErrorResponse(conn, ActionError, err)
		return
	}

	log = log.With("sessionID", created.ID)
	log.Info("WebSocket connection established")

	defer that.endSession(ctx, created.ID)

	go that.keepAlive(ctx, conn)

	if err = that.sendState(conn, created); err != nil {
		log.Error("failed to send initial state", "error", err)
		return
	}

	that.handleMessages(ctx, conn, created.ID)
}

// handleMessages - processes messages from the client one at a time.
func (that *Server) handleMessages(ctx context.Context, conn *websocket.Conn, sessionID string) {
	log := that.logger.With("method", "handleMessages", "sessionID", sessionID)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendErrorResponse(conn, ActionError, apperror.ErrInvalidPayload); err != nil {
				log.Error("failed to send error", "error", err)
				return
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("skipping message", "action", message.Action, "error", apperror.ErrUnsupportedAction)
			continue
		}

		view, err := handler(ctx, sessionID, &message)
		if err != nil {
			log.Warn("failed to process message", "action", message.Action, "error", err)
			err = that.sendErrorResponse(conn, message.Action, err)
		} else {
			err = that.sendState(conn, view)
		}

		if err != nil {
			log.Error("failed to send response", "error", err)
			return
		}
	}
}

// keepAlive pings the client and closes the connection once ctx is done.
func (that *Server) keepAlive(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// endSession - the page is gone, so is its game.
func (that *Server) endSession(ctx context.Context, sessionID string) {
	log := that.logger.With("method", "endSession", "sessionID", sessionID)

	if err := that.gameUseCase.EndSession(context.WithoutCancel(ctx), sessionID); err != nil {
		if !errors.Is(err, apperror.ErrSessionNotFound) {
			log.Error("failed to end session", "error", err)
		}
		return
	}

	log.Info("player disconnected")
}
