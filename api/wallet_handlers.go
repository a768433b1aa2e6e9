package api

import (
	"net/http"
	"strconv"
)

func (s *Server) handleDeposit(w http.ResponseWriter, r *http.Request) {
	var req DepositRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := s.services.Wallet.Deposit(r.Context(), userIDFromContext(r.Context()), req.Amount)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{Balance: balance})
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req WithdrawRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	balance, err := s.services.Wallet.Withdraw(r.Context(), userIDFromContext(r.Context()), req.Amount, req.Address)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, BalanceResponse{
		Balance: balance,
		Message: "Withdrawal requested (simulated).",
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.services.Wallet.History(r.Context(), userIDFromContext(r.Context()), queryLimit(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{History: history})
}

// queryLimit reads ?limit=, returning 0 (service default) when absent or malformed
func queryLimit(r *http.Request) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil {
		return 0
	}
	return limit
}
