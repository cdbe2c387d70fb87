package database

import (
	"context"
	"fmt"

	"maplewood-records/app/models"
)

// Directory resolves a user identifier to its role and assignment. Entries
// live under users/{uid} in the record store and are maintained by admins
// outside this application.
type Directory struct {
	store RecordStore
}

func NewDirectory(store RecordStore) *Directory {
	return &Directory{store: store}
}

// GetUser returns the directory entry for uid. A valid credential with no
// provisioned entry, or an entry with a role this application does not
// recognize, is a hard failure (models.ErrMetadataMissing), never a default
// role.
func (d *Directory) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var raw struct {
		Role            string `json:"role"`
		AssignedClass   string `json:"assignedClass"`
		AssignedSection string `json:"assignedSection"`
	}
	if err := d.store.Get(ctx, UserPath(uid), &raw); err != nil {
		return nil, fmt.Errorf("directory lookup for %s: %w", uid, err)
	}
	if raw.Role == "" {
		return nil, fmt.Errorf("no directory entry for %s: %w", uid, models.ErrMetadataMissing)
	}
	role, ok := models.ParseRole(raw.Role)
	if !ok {
		return nil, fmt.Errorf("unrecognized role %q for %s: %w", raw.Role, uid, models.ErrMetadataMissing)
	}
	// A teacher without an assignment has nowhere to read or write.
	if role == models.RoleTeacher && (raw.AssignedClass == "" || raw.AssignedSection == "") {
		return nil, fmt.Errorf("teacher %s has no class/section assignment: %w", uid, models.ErrMetadataMissing)
	}
	return &models.User{
		UID:             uid,
		Role:            role,
		AssignedClass:   raw.AssignedClass,
		AssignedSection: raw.AssignedSection,
	}, nil
}
