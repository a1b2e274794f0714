package store

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	types "github.com/yungbote/classroom-backend/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var embeddedSeed []byte

// LoadSeed reads the static demo data from path, or the embedded copy when
// path is empty. The first admin user becomes the demo-owned current user.
func LoadSeed(path string) (State, error) {
	raw := embeddedSeed
	if p := strings.TrimSpace(path); p != "" {
		b, err := os.ReadFile(p)
		if err != nil {
			return State{}, fmt.Errorf("read seed file: %w", err)
		}
		raw = b
	}
	return ParseSeed(raw)
}

func ParseSeed(raw []byte) (State, error) {
	var st State
	if err := yaml.Unmarshal(raw, &st); err != nil {
		return State{}, fmt.Errorf("parse seed: %w", err)
	}
	for i := range st.Users {
		st.Users[i].Roles = types.NormalizeRoles(st.Users[i].Roles)
	}
	for i := range st.Classes {
		if st.Classes[i].Status == "" {
			st.Classes[i].Status = types.ClassActive
		}
		st.Classes[i].ProfessorIDs = dedupe(st.Classes[i].ProfessorIDs)
		st.Classes[i].TrailIDs = dedupe(st.Classes[i].TrailIDs)
	}
	for _, u := range st.Users {
		if types.HasRole(u.Roles, types.RoleAdmin) {
			cu := types.CurrentUser{
				ID:    u.ID,
				Name:  u.Name,
				Email: u.Email,
				Role:  types.PrimaryRole(u.Roles),
				Roles: append([]types.Role{}, u.Roles...),
			}
			st.CurrentUser = &cu
			st.CurrentUserOwner = OwnerDemo
			break
		}
	}
	return st, nil
}
