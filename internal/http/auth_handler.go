package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tuanvumaihuynh/productstack/internal/config"
	"github.com/tuanvumaihuynh/productstack/internal/http/middleware"
	"github.com/tuanvumaihuynh/productstack/internal/service"
	"github.com/tuanvumaihuynh/productstack/pkg/validator"
)

type signupRequest struct {
	Name     string `json:"name" validate:"required,notblank,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=100"`
}

type signupResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
}

type loginResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Token   string `json:"token"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type authHandler struct {
	responder
	authSvc   service.AuthService
	validator validator.Validator
	cfg       config.Auth
}

func newAuthHandler(rs responder, authSvc service.AuthService, v validator.Validator, cfg config.Auth) *authHandler {
	return &authHandler{
		responder: rs,
		authSvc:   authSvc,
		validator: v,
		cfg:       cfg,
	}
}

func (h *authHandler) Routes(r chi.Router) {
	r.Post("/signup", h.Signup)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
}

func (h *authHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := readJSON(w, r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.Error(w, r, err)
		return
	}

	res, err := h.authSvc.Signup(r.Context(), service.SignupParams{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(w, r, fmt.Errorf("auth service signup: %w", err))
		return
	}

	h.JSON(w, r, http.StatusCreated, signupResponse{
		Success: true,
		Message: "user registered",
		Token:   res.Token,
	})
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.Error(w, r, err)
		return
	}
	if err := h.validator.Validate(req); err != nil {
		h.Error(w, r, err)
		return
	}

	res, err := h.authSvc.Login(r.Context(), service.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.Error(w, r, fmt.Errorf("auth service login: %w", err))
		return
	}

	http.SetCookie(w, h.tokenCookie(res.Token, res.ExpiresAt))

	h.JSON(w, r, http.StatusOK, loginResponse{
		Success: true,
		Message: "login successful",
		Token:   res.Token,
		Name:    res.User.Name,
		Email:   res.User.Email,
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	c := h.tokenCookie("", time.Unix(0, 0))
	c.MaxAge = -1
	http.SetCookie(w, c)

	h.JSON(w, r, http.StatusOK, messageResponse{
		Success: true,
		Message: "logged out successfully",
	})
}

func (h *authHandler) tokenCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cfg.SecureCookie,
		SameSite: http.SameSiteStrictMode,
	}
}
