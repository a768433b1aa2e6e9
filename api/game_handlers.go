package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	var req StartRoundRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	round, err := s.services.Games.StartRound(r.Context(), userIDFromContext(r.Context()), req.Stake, req.ClientSeed)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, RoundEnvelope{Round: round})
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	roundID, ok := decodeRoundID(w, r)
	if !ok {
		return
	}

	result, err := s.services.Games.Roll(r.Context(), roundID, userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RollResponse{Round: result.Round, Result: result.Outcome})
}

func (s *Server) handleCashOut(w http.ResponseWriter, r *http.Request) {
	roundID, ok := decodeRoundID(w, r)
	if !ok {
		return
	}

	result, err := s.services.Games.CashOut(r.Context(), roundID, userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, CashOutResponse{
		Round:   result.Round,
		Payout:  result.Payout,
		Balance: result.NewBalance,
	})
}

func (s *Server) handleActiveRound(w http.ResponseWriter, r *http.Request) {
	round, err := s.services.Games.GetActiveRound(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoundEnvelope{Round: round})
}

func (s *Server) handleListRounds(w http.ResponseWriter, r *http.Request) {
	rounds, err := s.services.Games.ListRounds(r.Context(), userIDFromContext(r.Context()), queryLimit(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoundsResponse{Rounds: rounds})
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	roundID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid round id")
		return
	}

	round, err := s.services.Games.GetRound(r.Context(), roundID, userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, RoundEnvelope{Round: round})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.services.Stats.GetUserStats(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newStatsResponse(stats))
}

func decodeRoundID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	var req RoundActionRequest
	if !decodeJSON(w, r, &req) {
		return uuid.Nil, false
	}
	if req.RoundID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "Missing roundId")
		return uuid.Nil, false
	}
	return req.RoundID, true
}
