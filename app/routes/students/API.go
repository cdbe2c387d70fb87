package students

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"maplewood-records/app/models"
	"maplewood-records/app/records"
	"maplewood-records/app/routes/auth"
	"maplewood-records/app/routes/flash"
)

// AddStudentAPI handles the add-student form POST. The class/section form
// fields only matter for counselors; the record service pins teachers to
// their own assignment no matter what arrives in the request.
func (h *Handlers) AddStudentAPI(c *fiber.Ctx) error {
	sess := auth.CurrentSession(c)

	fields := records.StudentFields{
		Name:           c.FormValue("name"),
		SpecialNeeds:   c.FormValue("specialNeeds"),
		Progress:       c.FormValue("progress"),
		Accommodations: c.FormValue("accommodations"),
		Notes:          c.FormValue("notes"),
	}
	targetClass := c.FormValue("class")
	targetSection := c.FormValue("section")

	_, rec, err := h.Records.AddOrReplaceStudent(c.Context(), sess, targetClass, targetSection, fields)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation):
			flash.Set(c, "warning", err.Error())
			return c.Redirect("/add_student")
		case errors.Is(err, models.ErrForbidden):
			flash.Set(c, "danger", "Not authorized to add students")
			return c.Redirect("/dashboard")
		default:
			h.Log.Error("adding student", zap.String("uid", sess.UID), zap.Error(err))
			flash.Set(c, "danger", "Could not save the student. Try again later.")
			return c.Redirect("/add_student")
		}
	}

	targetClass, targetSection = writtenTarget(sess, targetClass, targetSection)
	flash.Set(c, "success", fmt.Sprintf("Student %s added to %s/%s", rec.Name, targetClass, targetSection))
	return c.Redirect("/dashboard")
}

func writtenTarget(sess *models.Session, class, section string) (string, string) {
	if sess.Role == models.RoleTeacher {
		return sess.AssignedClass, sess.AssignedSection
	}
	return class, section
}
