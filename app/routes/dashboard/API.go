package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/routes/auth"
	"maplewood-records/app/routes/flash"
)

// GetDashboard dispatches each role to its landing page. The role set is
// closed; anything unrecognized is signed out rather than defaulted.
func (h *Handlers) GetDashboard(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)
	switch sess.Role {
	case models.RoleCounselor:
		return c.Redirect("/counselor")
	case models.RoleTeacher:
		return c.Redirect("/teacher")
	default:
		// Unreachable while sign-in validates roles; fail closed anyway.
		h.Log.Error("session with unknown role", zap.String("role", string(sess.Role)))
		flash.Set(c, "danger", "Your account is not provisioned. Contact admin.")
		return c.Redirect("/logout")
	}
}

// TeacherDashboard lists the students in the teacher's own class/section.
func (h *Handlers) TeacherDashboard(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)
	students, err := h.Records.ListForTeacher(c.Context(), sess)
	if err != nil {
		h.Log.Error("loading teacher dashboard", zap.String("uid", sess.UID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "could not load students")
	}
	return c.Render("teacher_dashboard", fiber.Map{
		"Title":           "My students - Maplewood Records",
		"Flash":           flash.Pop(c),
		"Students":        students,
		"AssignedClass":   sess.AssignedClass,
		"AssignedSection": sess.AssignedSection,
	})
}

// CounselorDashboard lists every class, section and student.
func (h *Handlers) CounselorDashboard(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)
	allStudents, err := h.Records.ListForCounselor(c.Context(), sess)
	if err != nil {
		h.Log.Error("loading counselor dashboard", zap.String("uid", sess.UID), zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "could not load students")
	}
	return c.Render("counselor_dashboard", fiber.Map{
		"Title":       "All students - Maplewood Records",
		"Flash":       flash.Pop(c),
		"AllStudents": allStudents,
	})
}
