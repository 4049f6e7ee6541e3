package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rocketscienceinc/chess-backend/internal/apperror"
	"github.com/rocketscienceinc/chess-backend/internal/entity"
)

type createMatchResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (that *Server) handleCreateMatch(w http.ResponseWriter, _ *http.Request) {
	id := that.manager.CreateMatch()

	that.logger.Info("match created", "match_id", id)

	that.writeJSON(w, http.StatusCreated, createMatchResponse{ID: id})
}

func (that *Server) handleGetMatch(w http.ResponseWriter, r *http.Request) {
	state, err := that.manager.Snapshot(r.PathValue("id"))
	if errors.Is(err, apperror.ErrMatchNotFound) {
		that.writeJSON(w, http.StatusNotFound, errorResponse{Error: apperror.ErrMatchNotFound.Error()})
		return
	}

	if err != nil {
		that.logger.Error("failed to get match", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	that.writeJSON(w, http.StatusOK, state)
}

func (that *Server) handlePlayerHistory(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "handlePlayerHistory")

	records, err := that.manager.History(r.Context(), r.PathValue("id"))
	if err != nil {
		log.Error("failed to list matches", "error", err)
		that.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		return
	}

	if records == nil {
		records = []entity.MatchRecord{}
	}

	that.writeJSON(w, http.StatusOK, records)
}

func (that *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
