package api

import (
	"errors"
	"net/http"
	"strings"

	"farm-catalog/internal/auth"
	"farm-catalog/internal/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const invalidCredentials = "Invalid credentials"

type AuthHandler struct {
	auth  *auth.Manager
	log   *zap.Logger
	pages renderer
}

func NewAuthHandler(cfg *config.Config, log *zap.Logger, m *auth.Manager) *AuthHandler {
	return &AuthHandler{auth: m, log: log, pages: renderer{whatsappNumber: cfg.WhatsAppNumber}}
}

func (h *AuthHandler) LoginForm(c *gin.Context) {
	if _, ok := auth.IdentityFrom(c.Request.Context()); ok {
		redirect(c, "/admin/")
		return
	}
	h.pages.html(c, http.StatusOK, "admin/login.html", gin.H{"Title": "Sign in", "Email": ""})
}

func (h *AuthHandler) Login(c *gin.Context) {
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	token, expires, err := h.auth.Login(c.Request.Context(), email, password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		h.log.Info("admin login failed", zap.String("ip", c.ClientIP()))
		h.pages.html(c, http.StatusUnauthorized, "admin/login.html", gin.H{
			"Title": "Sign in",
			"Email": email,
			"Error": invalidCredentials,
		})
		return
	}
	if err != nil {
		h.pages.serverError(c, h.log, "admin login", err)
		return
	}

	h.auth.SetCookie(c, token, expires)
	h.log.Info("admin logged in", zap.String("email", email))
	redirect(c, "/admin/")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id, ok := auth.IdentityFrom(c.Request.Context()); ok {
		if err := h.auth.Revoke(c.Request.Context(), id.SessionID); err != nil {
			h.log.Error("revoke session", zap.Error(err))
		}
	}
	h.auth.ClearCookie(c)
	redirect(c, auth.LoginPath)
}
