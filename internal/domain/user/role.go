package user

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProfessor Role = "professor"
	RoleStudent   Role = "aluno"
)

// DefaultRole is assigned when a user holds no role rows.
const DefaultRole = RoleStudent

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProfessor, RoleStudent:
		return true
	default:
		return false
	}
}

func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_role" json:"user_id"`
	Role      Role      `gorm:"column:role;not null;uniqueIndex:idx_user_role" json:"role"`
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (UserRole) TableName() string { return "user_roles" }

func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// NormalizeRoles drops unknown and duplicate tags, keeping first-seen order.
// The result is never empty.
func NormalizeRoles(in []Role) []Role {
	out := make([]Role, 0, len(in))
	seen := make(map[Role]struct{}, len(in))
	for _, r := range in {
		r = Role(strings.ToLower(strings.TrimSpace(string(r))))
		if !r.Valid() {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	if len(out) == 0 {
		out = append(out, DefaultRole)
	}
	return out
}

// PrimaryRole is the first role as returned, or DefaultRole.
func PrimaryRole(roles []Role) Role {
	if len(roles) == 0 {
		return DefaultRole
	}
	return roles[0]
}

func HasRole(roles []Role, want ...Role) bool {
	for _, r := range roles {
		for _, w := range want {
			if r == w {
				return true
			}
		}
	}
	return false
}

func RolesFromRows(rows []*UserRole) []Role {
	out := make([]Role, 0, len(rows))
	for _, row := range rows {
		if row == nil {
			continue
		}
		out = append(out, row.Role)
	}
	return out
}
