package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mr1hm/ward-risk-dashboard/internal/models"
	"github.com/mr1hm/ward-risk-dashboard/internal/session"
	"github.com/mr1hm/ward-risk-dashboard/internal/view"
)

const (
	sessionCookie = "ward_session"
	sessionKey    = "session"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type themeRequest struct {
	Theme string `json:"theme"`
}

// requireSession rejects requests without a live session. Page requests are
// redirected to the login form, API requests get 401.
func (h *Handler) requireSession(redirect bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(sessionCookie)
		sess, err := h.sessions.Validate(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, session.ErrUnauthorized) {
				slog.Error("error validating session", "error", err)
			}
			if redirect {
				c.Redirect(http.StatusSeeOther, "/login")
				c.Abort()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func currentSession(c *gin.Context) *models.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*models.Session); ok {
			return s
		}
	}
	return &models.Session{}
}

func (h *Handler) loginPage(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := h.renderer.Login(c.Writer, view.LoginPage{Theme: string(session.DefaultTheme)}); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) login(c *gin.Context) {
	form := isFormPost(c)

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sess, err := h.sessions.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, session.ErrUnauthorized) {
			slog.Error("error during login", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
			return
		}
		if form {
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.Status(http.StatusUnauthorized)
			if err := h.renderer.Login(c.Writer, view.LoginPage{
				Theme: string(session.DefaultTheme),
				Error: "Invalid username or password",
			}); err != nil {
				_ = c.Error(err)
			}
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	maxAge := int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, sess.ID, maxAge, "/", "", h.cookieSecure, true)

	if form {
		c.Redirect(http.StatusSeeOther, "/")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"username":  sess.Username,
		"expiresAt": sess.ExpiresAt,
	})
}

func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(sessionCookie); err == nil {
		if err := h.sessions.Logout(c.Request.Context(), id); err != nil {
			slog.Error("error deleting session", "error", err)
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", h.cookieSecure, true)

	if isFormPost(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

// isFormPost reports whether the request came from an HTML form rather than
// a script.
func isFormPost(c *gin.Context) bool {
	switch c.ContentType() {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		return true
	}
	return false
}

func (h *Handler) getTheme(c *gin.Context) {
	theme, err := h.sessions.Theme(c.Request.Context(), currentSession(c).Username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

func (h *Handler) putTheme(c *gin.Context) {
	var req themeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	theme, err := session.ParseTheme(req.Theme)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.sessions.SetTheme(c.Request.Context(), currentSession(c).Username, theme); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}
