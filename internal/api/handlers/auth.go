package handlers

import (
	"log/slog"
	"net/http"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
	"github.com/baharkarakas/blog-backend/internal/services"
	"github.com/baharkarakas/blog-backend/internal/validate"
)

type AuthHandler struct {
	Users *services.UserService
	Log   *slog.Logger
}

func NewAuthHandler(users *services.UserService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{Users: users, Log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in validate.RegisterInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	u, err := h.Users.Register(r.Context(), in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, u)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in validate.LoginInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	res, err := h.Users.Login(r.Context(), in)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshReq
	if err := httpx.DecodeJSON(r, &req); err != nil {
		fail(h.Log, w, r, err)
		return
	}
	res, err := h.Users.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		fail(h.Log, w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
