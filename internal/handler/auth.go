package handler

import (
	"net/http"

	"noteboard/internal/service"
	"noteboard/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler interface {
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type authHandler struct {
	accounts     service.AccountService
	cookieMaxAge int
	log          *logrus.Logger
}

func NewAuthHandler(accounts service.AccountService, cookieMaxAge int, log *logrus.Logger) AuthHandler {
	return &authHandler{accounts: accounts, cookieMaxAge: cookieMaxAge, log: log}
}

func (h *authHandler) Login(c *gin.Context) {
	email := c.PostForm("email")
	password := c.PostForm("password")
	otp := c.PostForm("otp")

	token, outcome := h.accounts.Login(c.Request.Context(), email, password, otp)
	if token == "" {
		c.JSON(http.StatusOK, outcome.Result)
		return
	}

	setSessionCookie(c, token, h.cookieMaxAge)
	c.Redirect(http.StatusSeeOther, outcome.Redirect)
}

func (h *authHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(session.CookieName)
	if err == nil && token != "" {
		if err := h.accounts.Logout(c.Request.Context(), token); err != nil {
			h.log.Errorf("Failed to revoke session: %v", err)
		}
	}

	clearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, "/login")
}
