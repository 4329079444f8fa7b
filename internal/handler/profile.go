package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"noteboard/internal/middleware"
	"noteboard/internal/service"
	"noteboard/internal/session"
	"noteboard/internal/totp"
	"noteboard/internal/validation"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ProfileHandler interface {
	GetProfile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	UpdatePassword(c *gin.Context)
	UpdateMFA(c *gin.Context)
	DeleteMFA(c *gin.Context)
	DeleteAccount(c *gin.Context)
	BackupData(c *gin.Context)
	ProvisionMFA(c *gin.Context)
}

type profileHandler struct {
	accounts service.AccountService
	issuer   string
	log      *logrus.Logger
}

func NewProfileHandler(accounts service.AccountService, issuer string, log *logrus.Logger) ProfileHandler {
	return &profileHandler{accounts: accounts, issuer: issuer, log: log}
}

// caller pulls the resolved identity the session middleware stored.
func caller(c *gin.Context) service.Caller {
	out := service.Caller{}
	if v, ok := c.Get(middleware.ContextSession); ok {
		if sess, ok := v.(*session.Session); ok {
			out.Session = sess
		}
	}
	if v, ok := c.Get(middleware.ContextToken); ok {
		if token, ok := v.(string); ok {
			out.Token = token
		}
	}
	return out
}

// formInt coerces a form field to an integer; malformed input becomes zero
// and fails validation downstream, mirroring the form's loose coercion.
func formInt(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.PostForm(name), 10, 64)
	return v
}

// respond maps a workflow outcome onto the wire: business results are HTTP
// 200 with the result body, navigations are redirects.
func (h *profileHandler) respond(c *gin.Context, outcome service.Outcome) {
	if outcome.Redirect == "" {
		c.JSON(http.StatusOK, outcome.Result)
		return
	}

	if outcome.ClearSession {
		if token, ok := c.Get(middleware.ContextToken); ok {
			if err := h.accounts.Logout(c.Request.Context(), token.(string)); err != nil {
				h.log.Errorf("Failed to revoke session: %v", err)
			}
		}
		clearSessionCookie(c)
	}

	status := http.StatusSeeOther
	if outcome.Permanent {
		status = http.StatusPermanentRedirect
	}
	c.Redirect(status, outcome.Redirect)
}

func (h *profileHandler) GetProfile(c *gin.Context) {
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	user, err := h.accounts.GetProfile(c.Request.Context(), caller(c), userID)
	if err != nil {
		if errors.Is(err, service.ErrUnauthenticated) {
			c.Redirect(http.StatusSeeOther, "/login")
			return
		}
		h.log.Errorf("Failed to load profile %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return
	}

	// A profile the caller may not see reads as absent, not forbidden.
	c.JSON(http.StatusOK, user)
}

func (h *profileHandler) UpdateProfile(c *gin.Context) {
	form := validation.ProfileForm{
		ID:    formInt(c, "id"),
		Name:  c.PostForm("name"),
		Email: c.PostForm("email"),
	}
	h.respond(c, h.accounts.UpdateProfile(c.Request.Context(), caller(c), form))
}

func (h *profileHandler) UpdatePassword(c *gin.Context) {
	form := validation.PasswordForm{
		ID:       formInt(c, "id"),
		Current:  c.PostForm("current"),
		Password: c.PostForm("password"),
		Confirm:  c.PostForm("confirm"),
	}
	h.respond(c, h.accounts.UpdatePassword(c.Request.Context(), form))
}

func (h *profileHandler) UpdateMFA(c *gin.Context) {
	form := validation.MFAForm{
		ID:       formInt(c, "id"),
		Secret:   c.PostForm("secret"),
		Password: c.PostForm("password"),
	}
	h.respond(c, h.accounts.UpdateMFA(c.Request.Context(), form))
}

func (h *profileHandler) DeleteMFA(c *gin.Context) {
	form := validation.DeleteMFAForm{
		ID:       formInt(c, "id"),
		Password: c.PostForm("password"),
	}
	h.respond(c, h.accounts.DeleteMFA(c.Request.Context(), form))
}

func (h *profileHandler) DeleteAccount(c *gin.Context) {
	form := validation.DeleteAccountForm{
		UserID:   formInt(c, "userId"),
		Password: c.PostForm("password"),
	}
	h.respond(c, h.accounts.DeleteAccount(c.Request.Context(), form))
}

// BackupData streams the caller's export as a downloadable file; failures
// come back as the usual result body.
func (h *profileHandler) BackupData(c *gin.Context) {
	form := validation.BackupForm{UserID: formInt(c, "userId")}

	outcome := h.accounts.BackupData(c.Request.Context(), form)
	result := outcome.Result
	if result == nil || result.Success == nil || !*result.Success {
		c.JSON(http.StatusOK, result)
		return
	}

	payload, ok := result.Data.(string)
	if !ok {
		h.log.Errorf("Backup payload for user %d has unexpected type %T", form.UserID, result.Data)
		c.JSON(http.StatusOK, &service.Result{Message: "An error occurred while backing up data."})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=noteboard-backup-%d.json", form.UserID))
	c.Data(http.StatusOK, "application/json", []byte(payload))
}

// ProvisionMFA mints a fresh enrollment secret for the caller's own account.
func (h *profileHandler) ProvisionMFA(c *gin.Context) {
	userID, _ := strconv.ParseInt(c.Param("userId"), 10, 64)

	who := caller(c)
	if who.Session == nil || who.Session.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed"})
		return
	}

	secret, uri, err := totp.GenerateSecret(h.issuer, who.Session.Email)
	if err != nil {
		h.log.Errorf("Failed to generate MFA secret for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate secret"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"secret": secret, "uri": uri})
}
