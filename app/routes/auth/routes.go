package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/routes/flash"
	"maplewood-records/app/session"
)

const sessionCookie = "session_token"

type Handlers struct {
	Sessions *session.Manager
	Log      *zap.Logger
}

func (h *Handlers) SetupRoutes(app *fiber.App) {
	app.Get("/", h.Index)
	app.Get("/login", h.ShowLoginPage)
	app.Post("/login", h.LoginAPI)
	app.Get("/logout", h.LogoutAPI)
}

// Index sends signed-in clients to their dashboard, everyone else to login.
func (h *Handlers) Index(c *fiber.Ctx) error {
	if h.Sessions.Current(c.Context(), clientToken(c)) != nil {
		return c.Redirect("/dashboard")
	}
	return c.Redirect("/login")
}

func (h *Handlers) ShowLoginPage(c *fiber.Ctx) error {
	// Already signed in: straight to the dashboard.
	if h.Sessions.Current(c.Context(), clientToken(c)) != nil {
		return c.Redirect("/dashboard")
	}
	return c.Render("login", fiber.Map{
		"Title": "Sign in - Maplewood Records",
		"Flash": flash.Pop(c),
	})
}

// AuthMiddleware resolves the client token to a session and stores it in
// request locals. Without a valid session the request is redirected to the
// sign-in page.
func (h *Handlers) AuthMiddleware(c *fiber.Ctx) error {
	sess := h.Sessions.Current(c.Context(), clientToken(c))
	if sess == nil {
		flash.Set(c, "warning", "Please sign in")
		return c.Redirect("/login")
	}
	c.Locals("session", sess)
	return c.Next()
}

// RequireRole gates a route to one role. Any other role is sent back to its
// own dashboard; the gated page's data is never rendered.
func (h *Handlers) RequireRole(role models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if sess == nil || sess.Role != role {
			flash.Set(c, "danger", "Not authorized for that page")
			return c.Redirect("/dashboard")
		}
		return c.Next()
	}
}

// CurrentSession returns the session placed in locals by AuthMiddleware.
func CurrentSession(c *fiber.Ctx) *models.Session {
	sess, _ := c.Locals("session").(*models.Session)
	return sess
}

// clientToken pulls the signed session token from the cookie, falling back
// to a bearer Authorization header.
func clientToken(c *fiber.Ctx) string {
	if token := c.Cookies(sessionCookie); token != "" {
		return token
	}
	if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}
