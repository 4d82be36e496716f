package rest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-history/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type gameUseCase interface {
	NewSession(ctx context.Context) (*usecase.SessionView, error)
	GetSession(ctx context.Context, id string) (*usecase.SessionView, error)
	MakeMove(ctx context.Context, id string, cell int) (*usecase.SessionView, error)
	JumpTo(ctx context.Context, id string, ply int) (*usecase.SessionView, error)
	EndSession(ctx context.Context, id string) error
}

type Server struct {
	logger      *slog.Logger
	gameUseCase gameUseCase
	socket      http.Handler
	page        *page
}

// New - socket serves /ws; the page connects to it to play.
func New(logger *slog.Logger, gameUseCase gameUseCase, socket http.Handler) *Server {
	return &Server{
		logger:      logger.With("component", "rest"),
		gameUseCase: gameUseCase,
		socket:      socket,
		page:        newPage(),
	}
}

func (that *Server) Handler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/ping", pingHandler).Methods(http.MethodGet)
	router.HandleFunc("/", that.handleIndex).Methods(http.MethodGet)
	router.Handle("/ws", that.socket)

	api := router.PathPrefix("/api/sessions").Subrouter()
	api.HandleFunc("", that.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/{id}", that.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/{id}", that.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/{id}/moves", that.handleMove).Methods(http.MethodPost)
	api.HandleFunc("/{id}/jump", that.handleJump).Methods(http.MethodPost)

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slog.NewLogLogger(that.logger.Handler(), slog.LevelError)),
	)

	return handlers.CustomLoggingHandler(io.Discard, recovery(router), that.logRequest)
}

// Start - serves until ctx is cancelled, then shuts down gracefully.
func (that *Server) Start(ctx context.Context, port string) error {
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      that.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}

func (that *Server) logRequest(_ io.Writer, params handlers.LogFormatterParams) {
	that.logger.Info("request",
		"http_method", params.Request.Method,
		"path", params.URL.Path,
		"status", params.StatusCode,
		"size", params.Size,
		"duration", time.Since(params.TimeStamp),
	)
}
