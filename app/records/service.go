// Package records implements role-scoped access to the student record tree.
// Teachers read and write exactly their own class/section; counselors read
// the whole tree and may write with an explicit target. Every operation
// fails closed on a role it was not built for.
package records

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"maplewood-records/app/database"
	"maplewood-records/app/models"
)

// StudentFields is the caller-supplied part of a student record.
type StudentFields struct {
	Name           string
	SpecialNeeds   string
	Progress       string
	Accommodations string
	Notes          string
}

type Service struct {
	store database.RecordStore
	log   *zap.Logger
	now   func() time.Time
}

func NewService(store database.RecordStore, log *zap.Logger) *Service {
	return &Service{store: store, log: log, now: time.Now}
}

// ListForTeacher returns the records in the caller's own assigned section,
// keyed by derived student key. Only teachers may call it.
func (s *Service) ListForTeacher(ctx context.Context, sess *models.Session) (map[string]models.StudentRecord, error) {
	if sess.Role != models.RoleTeacher {
		return nil, fmt.Errorf("list for teacher as %s: %w", sess.Role, models.ErrForbidden)
	}

	var raw map[string]json.RawMessage
	path := database.SectionPath(sess.AssignedClass, sess.AssignedSection)
	if err := s.store.Get(ctx, path, &raw); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return s.decodeSection(path, raw), nil
}

// ListForCounselor returns the entire record tree as class → section →
// student key → record. Only counselors may call it.
func (s *Service) ListForCounselor(ctx context.Context, sess *models.Session) (map[string]map[string]map[string]models.StudentRecord, error) {
	if sess.Role != models.RoleCounselor {
		return nil, fmt.Errorf("list for counselor as %s: %w", sess.Role, models.ErrForbidden)
	}

	var raw map[string]json.RawMessage
	if err := s.store.Get(ctx, database.ClassesRoot, &raw); err != nil {
		return nil, fmt.Errorf("reading %s: %w", database.ClassesRoot, err)
	}

	// Decode one level at a time so a stray non-map node anywhere in the
	// tree costs only that subtree, not the whole view.
	tree := make(map[string]map[string]map[string]models.StudentRecord, len(raw))
	for class, rawSections := range raw {
		var sections map[string]json.RawMessage
		if err := json.Unmarshal(rawSections, &sections); err != nil {
			s.log.Warn("skipping malformed class node",
				zap.String("path", database.ClassesRoot+"/"+class))
			continue
		}
		tree[class] = make(map[string]map[string]models.StudentRecord, len(sections))
		for section, rawStudents := range sections {
			var students map[string]json.RawMessage
			if err := json.Unmarshal(rawStudents, &students); err != nil {
				s.log.Warn("skipping malformed section node",
					zap.String("path", database.SectionPath(class, section)))
				continue
			}
			tree[class][section] = s.decodeSection(database.SectionPath(class, section), students)
		}
	}
	return tree, nil
}

// AddOrReplaceStudent writes a full student record. For teachers the target
// class/section is forced to their own assignment regardless of what the
// caller supplied, so a forged request cannot write into another section.
// Counselors must supply an explicit non-empty target. The write replaces
// whatever was at the derived key before; last writer wins.
func (s *Service) AddOrReplaceStudent(ctx context.Context, sess *models.Session, targetClass, targetSection string, fields StudentFields) (string, *models.StudentRecord, error) {
	switch sess.Role {
	case models.RoleTeacher:
		targetClass = sess.AssignedClass
		targetSection = sess.AssignedSection
	case models.RoleCounselor:
		targetClass = strings.TrimSpace(targetClass)
		targetSection = strings.TrimSpace(targetSection)
		if targetClass == "" || targetSection == "" {
			return "", nil, fmt.Errorf("class and section are required: %w", models.ErrValidation)
		}
	default:
		return "", nil, fmt.Errorf("add student as %s: %w", sess.Role, models.ErrForbidden)
	}

	name := strings.TrimSpace(fields.Name)
	key := models.StudentKeyFromName(name)
	if key == "" {
		return "", nil, fmt.Errorf("student name is required: %w", models.ErrValidation)
	}

	rec := &models.StudentRecord{
		Name:           name,
		SpecialNeeds:   strings.TrimSpace(fields.SpecialNeeds),
		Progress:       strings.TrimSpace(fields.Progress),
		Accommodations: strings.TrimSpace(fields.Accommodations),
		Notes:          strings.TrimSpace(fields.Notes),
		CreatedBy:      sess.UID,
		LastUpdated:    s.now().UnixMilli(),
	}

	path := database.StudentPath(targetClass, targetSection, key)
	if err := s.store.Set(ctx, path, rec); err != nil {
		return "", nil, fmt.Errorf("writing %s: %w", path, err)
	}
	s.log.Info("student record written",
		zap.String("path", path),
		zap.String("by", sess.UID))
	return key, rec, nil
}

// decodeSection turns the raw children of one section into validated
// records. Malformed entries are skipped, not propagated.
func (s *Service) decodeSection(path string, raw map[string]json.RawMessage) map[string]models.StudentRecord {
	students := make(map[string]models.StudentRecord, len(raw))
	for key, msg := range raw {
		var rec models.StudentRecord
		if err := json.Unmarshal(msg, &rec); err != nil || !rec.Valid() {
			s.log.Warn("skipping malformed student record",
				zap.String("path", path+"/"+key))
			continue
		}
		students[key] = rec
	}
	return students
}
