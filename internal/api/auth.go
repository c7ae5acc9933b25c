package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ghostlab/gadgetry/internal/auth"
)

// createUserRequest is the request body for POST /auth/create_user.
type createUserRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /auth/login.
type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// handleCreateUser registers a new operator account.
//
// POST /auth/create_user
// Body: {userName, password}
// Success: 200 {success:true, message}
// Failure: 400 (missing fields, invalid name, or duplicate name)
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusBadRequest, "username and password is required")
		return
	}

	if req.UserName == "" || req.Password == "" {
		writeFail(w, http.StatusBadRequest, "username and password is required")
		return
	}

	account, err := s.authSvc.CreateAccount(r.Context(), req.UserName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidName):
			writeFail(w, http.StatusBadRequest, "invalid username")
		case errors.Is(err, auth.ErrNameExists):
			writeFail(w, http.StatusBadRequest, fmt.Sprintf("username %s taken", req.UserName))
		default:
			s.logger.Error("creating account", "error", err)
			writeFail(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("user with username %s created", account.Name),
	})
}

// handleLogin authenticates an account and returns a bearer token.
//
// POST /auth/login
// Body: {userName, password}
// Success: 200 {token}
// Failure: 404 (unknown name or bad password, collapsed to one response)
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFail(w, http.StatusNotFound, "invalid username or password")
		return
	}

	token, err := s.authSvc.Login(r.Context(), req.UserName, req.Password)
	if err != nil {
		// Unknown account and wrong password are deliberately
		// indistinguishable to the caller.
		if !errors.Is(err, auth.ErrAccountNotFound) && !errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.Error("login failed", "error", err)
		}
		writeFail(w, http.StatusNotFound, "invalid username or password")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
