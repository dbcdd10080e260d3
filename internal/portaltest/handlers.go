package portaltest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-fee-portal/internal/domain"
	"github.com/go-fee-portal/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

type envelope map[string]interface{}

type loginBody struct {
	UserID   string `json:"userid" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type verifyBody struct {
	UserID string `json:"userid" validate:"required"`
	OTP    string `json:"otp" validate:"required,len=6,numeric"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func fail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"status": false, "msg": msg})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, http.StatusOK, "userid and password are required")
		return
	}
	hash, ok := s.hashes[req.UserID]
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		fail(w, http.StatusOK, "Invalid userid or password")
		return
	}
	if acct := s.accounts[req.UserID]; s.opts.SMS != nil && acct.Mobile != "" {
		msg := fmt.Sprintf("%s is your fee portal verification code", s.opts.OTP)
		if err := s.opts.SMS.SendSMS(r.Context(), acct.Mobile, msg); err != nil {
			fail(w, http.StatusOK, "Could not send OTP, please try again")
			return
		}
	}
	s.mu.Lock()
	s.pending[req.UserID] = true
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{
		"status": true,
		"msg":    "OTP sent to your registered mobile number",
		"userid": req.UserID,
	})
}

func (s *Server) verifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		fail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		fail(w, http.StatusOK, "Invalid OTP")
		return
	}
	s.mu.Lock()
	pending := s.pending[req.UserID]
	s.mu.Unlock()
	if !pending {
		fail(w, http.StatusOK, "Please login first")
		return
	}
	if req.OTP != s.opts.OTP {
		fail(w, http.StatusOK, "Invalid OTP")
		return
	}
	token, err := s.IssueToken(req.UserID)
	if err != nil {
		fail(w, http.StatusInternalServerError, "Could not create session")
		return
	}
	s.mu.Lock()
	delete(s.pending, req.UserID)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, envelope{
		"status": true,
		"msg":    "OTP verified successfully",
		"token":  token,
	})
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		fail(w, http.StatusUnauthorized, "Authorization token missing")
		return
	}
	userID, err := s.verifyToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		fail(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	acct, ok := s.accounts[userID]
	if !ok {
		fail(w, http.StatusOK, "User not found")
		return
	}
	board := s.opts.Dashboard
	if s.opts.Banners != nil {
		urls, err := s.opts.Banners.URLs(r.Context())
		if err != nil {
			fail(w, http.StatusOK, "Could not load banners")
			return
		}
		board.Carousel = urls
	}
	writeJSON(w, http.StatusOK, envelope{
		"status": true,
		"user": domain.DashboardUser{
			UserID: domain.Text(acct.UserID),
			Name:   acct.Name,
			Mobile: domain.Text(acct.Mobile),
		},
		"dashboard": board,
	})
}
