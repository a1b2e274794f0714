package user

import "github.com/google/uuid"

// CurrentUser is the resolved {id, name, email, role} record routed to the UI.
type CurrentUser struct {
	ID    uuid.UUID `json:"id" yaml:"id"`
	Name  string    `json:"name" yaml:"name"`
	Email string    `json:"email" yaml:"email"`
	Role  Role      `json:"role" yaml:"role"`
	Roles []Role    `json:"roles" yaml:"roles"`
}

// NewCurrentUser builds the record for a profile and its role rows, in the
// order they were returned.
func NewCurrentUser(p *Profile, roles []Role) CurrentUser {
	cu := CurrentUser{Role: PrimaryRole(roles)}
	if len(roles) == 0 {
		cu.Roles = []Role{DefaultRole}
	} else {
		cu.Roles = append([]Role(nil), roles...)
	}
	if p != nil {
		cu.ID = p.ID
		cu.Name = p.Name
		cu.Email = p.Email
	}
	return cu
}
