package user

import (
	"testing"

	"github.com/google/uuid"
)

func TestPrimaryRole(t *testing.T) {
	cases := []struct {
		name  string
		roles []Role
		want  Role
	}{
		{"empty falls back to aluno", nil, RoleStudent},
		{"first wins", []Role{RoleProfessor, RoleAdmin}, RoleProfessor},
		{"single admin", []Role{RoleAdmin}, RoleAdmin},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PrimaryRole(tc.roles); got != tc.want {
				t.Fatalf("PrimaryRole: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestNormalizeRolesNeverEmpty(t *testing.T) {
	got := NormalizeRoles([]Role{"ghost", ""})
	if len(got) != 1 || got[0] != RoleStudent {
		t.Fatalf("NormalizeRoles: want=[aluno] got=%v", got)
	}
}

func TestNormalizeRolesDedupesKeepingOrder(t *testing.T) {
	got := NormalizeRoles([]Role{"Professor", RoleAdmin, RoleProfessor})
	if len(got) != 2 || got[0] != RoleProfessor || got[1] != RoleAdmin {
		t.Fatalf("NormalizeRoles: got=%v", got)
	}
}

func TestNewCurrentUser(t *testing.T) {
	p := &Profile{ID: uuid.New(), Name: "Ana", Email: "ana@example.com"}

	cu := NewCurrentUser(p, nil)
	if cu.Role != RoleStudent || len(cu.Roles) != 1 {
		t.Fatalf("no roles: got role=%q roles=%v", cu.Role, cu.Roles)
	}

	cu = NewCurrentUser(p, []Role{RoleProfessor, RoleAdmin})
	if cu.Role != RoleProfessor {
		t.Fatalf("primary: want=professor got=%q", cu.Role)
	}
	if cu.ID != p.ID || cu.Email != p.Email {
		t.Fatalf("identity not copied: %+v", cu)
	}
}
