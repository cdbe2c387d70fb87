package students

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/records"
	"maplewood-records/app/routes/auth"
	"maplewood-records/app/routes/flash"
)

type Handlers struct {
	Records *records.Service
	Log     *zap.Logger
}

func (h *Handlers) SetupRoutes(app *fiber.App, a *auth.Handlers) {
	app.Get("/add_student", a.AuthMiddleware, h.ShowAddStudentPage)
	app.Post("/add_student", a.AuthMiddleware, h.AddStudentAPI)
}

func (h *Handlers) ShowAddStudentPage(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)
	return c.Render("add_student", fiber.Map{
		"Title":           "Add student - Maplewood Records",
		"Flash":           flash.Pop(c),
		"Role":            string(sess.Role),
		"IsTeacher":       sess.Role == models.RoleTeacher,
		"AssignedClass":   sess.AssignedClass,
		"AssignedSection": sess.AssignedSection,
	})
}
