package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/routes/flash"
)

// LoginAPI handles the sign-in form POST.
func (h *Handlers) LoginAPI(c *fiber.Ctx) error {
	email := strings.TrimSpace(c.FormValue("email"))
	password := strings.TrimSpace(c.FormValue("password"))
	if email == "" || password == "" {
		flash.Set(c, "warning", "Enter email and password")
		return c.Redirect("/login")
	}

	sess, err := h.Sessions.SignIn(c.Context(), email, password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidCredentials):
			flash.Set(c, "danger", "Login failed: invalid email or password")
		case errors.Is(err, models.ErrMetadataMissing):
			flash.Set(c, "danger", "User metadata not found. Contact admin.")
		default:
			h.Log.Error("sign-in failed", zap.String("email", email), zap.Error(err))
			flash.Set(c, "danger", "Sign-in is currently unavailable. Try again later.")
		}
		return c.Redirect("/login")
	}

	token, err := h.Sessions.Token(sess)
	if err != nil {
		h.Log.Error("signing session token", zap.Error(err))
		flash.Set(c, "danger", "Sign-in is currently unavailable. Try again later.")
		return c.Redirect("/login")
	}

	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Expires:  sess.ExpiresAt,
		HTTPOnly: true,
		SameSite: "Lax",
	})
	flash.Set(c, "success", "Signed in as "+string(sess.Role))
	return c.Redirect("/dashboard")
}

// LogoutAPI destroys the session. Safe to call without one.
func (h *Handlers) LogoutAPI(c *fiber.Ctx) error {
	h.Sessions.SignOut(clientToken(c))
	c.Cookie(&fiber.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
	})
	flash.Set(c, "info", "Logged out")
	return c.Redirect("/login")
}
