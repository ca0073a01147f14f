package main

import (
	"encoding/json"
	"net/http"

	"github.com/fastlogix/fastlogix/pkg/auth"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username != s.adminUsername {
		respondError(w, http.StatusBadRequest, "Invalid username")
		return
	}
	if !auth.CheckPassword(s.adminPasswordHash, req.Password) {
		respondError(w, http.StatusBadRequest, "Invalid password")
		return
	}

	token, err := s.auth.GenerateToken(req.Username)
	if err != nil {
		s.log.Error("failed to generate token", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{Token: token})
}
