package httpserver

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	domain "authbox/backend/internal/domain/account"
	loginusecase "authbox/backend/internal/usecase/login"
	signupusecase "authbox/backend/internal/usecase/signup"
	"authbox/backend/internal/validation"
)

func (s *Server) registerRoutes() {
	s.router.Handle("/health", http.HandlerFunc(s.handleHealth))
	s.router.Handle("/testing", http.HandlerFunc(s.handleTesting))
	s.router.Handle("/signup", http.HandlerFunc(s.handleSignup))
	s.router.Handle("/login", http.HandlerFunc(s.handleLogin))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTesting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, "Success")
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload signupusecase.Input
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	if err := s.signupService.Register(r.Context(), payload); err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		case errors.Is(err, domain.ErrBothTaken):
			writeMessage(w, http.StatusBadRequest, "Username and email are already taken")
		case errors.Is(err, domain.ErrEmailTaken):
			writeMessage(w, http.StatusBadRequest, "Email already taken")
		case errors.Is(err, domain.ErrUsernameTaken):
			writeMessage(w, http.StatusBadRequest, "Username already taken")
		default:
			log.Printf("signup failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeMessage(w, http.StatusCreated, "Signed up successfully!")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodPost)
		return
	}

	var payload loginusecase.Credentials
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	token, err := s.loginService.Authenticate(r.Context(), payload)
	if err != nil {
		var verr *validation.Error
		switch {
		case errors.As(err, &verr):
			writeFieldErrors(w, verr.Fields)
		case errors.Is(err, domain.ErrAccountNotFound):
			writeMessage(w, http.StatusNotFound, "No user found with that username/email")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeMessage(w, http.StatusUnauthorized, "Incorrect password!")
		default:
			log.Printf("login failed: %v", err)
			writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
		}
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		Message: "Logged in successfully!",
		Token:   token,
	})
}
