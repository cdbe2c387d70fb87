package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/records"
	"maplewood-records/app/routes/auth"
)

type Handlers struct {
	Records *records.Service
	Log     *zap.Logger
}

func (h *Handlers) SetupRoutes(app *fiber.App, a *auth.Handlers) {
	app.Get("/dashboard", a.AuthMiddleware, h.GetDashboard)
	app.Get("/teacher", a.AuthMiddleware, a.RequireRole(models.RoleTeacher), h.TeacherDashboard)
	app.Get("/counselor", a.AuthMiddleware, a.RequireRole(models.RoleCounselor), h.CounselorDashboard)
}
