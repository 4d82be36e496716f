package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketscienceinc/tictactoe-history/internal/apperror"
)

type moveRequest struct {
	Cell *int `json:"cell"`
}

type jumpRequest struct {
	Ply *int `json:"ply"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameUseCase.NewSession(r.Context())
	if err != nil {
		that.writeError(w, "handleCreateSession", err)
		return
	}

	that.writeJSON(w, http.StatusCreated, view)
}

func (that *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	view, err := that.gameUseCase.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		that.writeError(w, "handleGetSession", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := that.gameUseCase.EndSession(r.Context(), mux.Vars(r)["id"]); err != nil {
		that.writeError(w, "handleDeleteSession", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (that *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, "handleMove", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		return
	}

	if req.Cell == nil {
		that.writeError(w, "handleMove", fmt.Errorf("%w: cell is required", apperror.ErrInvalidPayload))
		return
	}

	view, err := that.gameUseCase.MakeMove(r.Context(), mux.Vars(r)["id"], *req.Cell)
	if err != nil {
		that.writeError(w, "handleMove", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) handleJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		that.writeError(w, "handleJump", fmt.Errorf("%w: %w", apperror.ErrInvalidPayload, err))
		return
	}

	if req.Ply == nil {
		that.writeError(w, "handleJump", fmt.Errorf("%w: ply is required", apperror.ErrInvalidPayload))
		return
	}

	view, err := that.gameUseCase.JumpTo(r.Context(), mux.Vars(r)["id"], *req.Ply)
	if err != nil {
		that.writeError(w, "handleJump", err)
		return
	}

	that.writeJSON(w, http.StatusOK, view)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}

func (that *Server) writeError(w http.ResponseWriter, method string, err error) {
	status := statusFromError(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		that.logger.Error("request failed", "method", method, "error", err)
		message = http.StatusText(status)
	}

	that.writeJSON(w, status, errorResponse{Error: message})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, apperror.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrInvalidCell),
		errors.Is(err, apperror.ErrInvalidPly),
		errors.Is(err, apperror.ErrInvalidPayload):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
