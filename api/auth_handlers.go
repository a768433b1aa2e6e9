package api

import (
	"net/http"

	"dicepot/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password required")
		return
	}

	user, err := s.services.Users.Register(r.Context(), req.Email, req.Password, req.Name, req.Phone)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	s.writeAuthResponse(w, r, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.services.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	s.writeAuthResponse(w, r, user)
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.Users.GetUser(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: newUserResponse(user)})
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      newUserResponse(user),
	})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.handleMe(w, r)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.services.Users.UpdateProfile(r.Context(), userIDFromContext(r.Context()), req.Name, req.Phone)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, UserEnvelope{User: newUserResponse(user)})
}
