package store

import (
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

// Owner identifies who installed the current user record.
type Owner string

const (
	OwnerNone    Owner = ""
	OwnerDemo    Owner = "demo"
	OwnerSession Owner = "session"
)

type User struct {
	ID    uuid.UUID    `json:"id" yaml:"id"`
	Name  string       `json:"name" yaml:"name"`
	Email string       `json:"email" yaml:"email"`
	Roles []types.Role `json:"roles" yaml:"roles"`
}

type Trail struct {
	ID          uuid.UUID `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description" yaml:"description"`
}

type Module struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	TrailID    uuid.UUID `json:"trail_id" yaml:"trail_id"`
	Title      string    `json:"title" yaml:"title"`
	OrderIndex int       `json:"order_index" yaml:"order_index"`
}

type Content struct {
	ID              uuid.UUID         `json:"id" yaml:"id"`
	ModuleID        uuid.UUID         `json:"module_id" yaml:"module_id"`
	Title           string            `json:"title" yaml:"title"`
	Type            types.ContentType `json:"type" yaml:"type"`
	URL             string            `json:"url,omitempty" yaml:"url"`
	DurationSeconds int               `json:"duration_seconds" yaml:"duration_seconds"`
	OrderIndex      int               `json:"order_index" yaml:"order_index"`
}

// Class is always held in the current shape; see LegacyClass for the other.
type Class struct {
	ID           uuid.UUID         `json:"id" yaml:"id"`
	Name         string            `json:"name" yaml:"name"`
	Description  string            `json:"description" yaml:"description"`
	Status       types.ClassStatus `json:"status" yaml:"status"`
	ProfessorIDs []uuid.UUID       `json:"professor_ids" yaml:"professor_ids"`
	TrailIDs     []uuid.UUID       `json:"trail_ids" yaml:"trail_ids"`
}

type Enrollment struct {
	StudentID uuid.UUID `json:"student_id" yaml:"student_id"`
	ClassID   uuid.UUID `json:"class_id" yaml:"class_id"`
	Progress  int       `json:"progress" yaml:"progress"`
}

type Meeting struct {
	ID              uuid.UUID           `json:"id" yaml:"id"`
	ClassID         uuid.UUID           `json:"class_id" yaml:"class_id"`
	Title           string              `json:"title" yaml:"title"`
	ScheduledAt     time.Time           `json:"scheduled_at" yaml:"scheduled_at"`
	DurationMinutes int                 `json:"duration_minutes" yaml:"duration_minutes"`
	Status          types.MeetingStatus `json:"status" yaml:"status"`
}

// State is the whole client-side store. Slices keep insertion order so a
// replay yields byte-identical snapshots.
type State struct {
	Users       []User       `json:"users" yaml:"users"`
	Classes     []Class      `json:"classes" yaml:"classes"`
	Trails      []Trail      `json:"trails" yaml:"trails"`
	Modules     []Module     `json:"modules" yaml:"modules"`
	Contents    []Content    `json:"contents" yaml:"contents"`
	Enrollments []Enrollment `json:"enrollments" yaml:"enrollments"`
	Meetings    []Meeting    `json:"meetings" yaml:"meetings"`

	CurrentUser      *types.CurrentUser `json:"current_user" yaml:"-"`
	CurrentUserOwner Owner              `json:"current_user_owner" yaml:"-"`
}

// Clone returns a deep copy.
func (s State) Clone() State {
	return State{
		Users:            cloneUsers(s.Users),
		Classes:          cloneClasses(s.Classes),
		Trails:           append([]Trail{}, s.Trails...),
		Modules:          append([]Module{}, s.Modules...),
		Contents:         append([]Content{}, s.Contents...),
		Enrollments:      append([]Enrollment{}, s.Enrollments...),
		Meetings:         append([]Meeting{}, s.Meetings...),
		CurrentUser:      cloneCurrentUser(s.CurrentUser),
		CurrentUserOwner: s.CurrentUserOwner,
	}
}

// cloneFor copies only the slices a command on entity may write. The rest
// stay shared with s, which is safe because committed slices are never
// mutated in place.
func (s State) cloneFor(entity Entity) State {
	out := s
	switch entity {
	case EntityClasses:
		out.Classes = cloneClasses(s.Classes)
		out.Enrollments = append([]Enrollment{}, s.Enrollments...)
		out.Meetings = append([]Meeting{}, s.Meetings...)
	case EntityUsers:
		out.Users = cloneUsers(s.Users)
		out.Classes = cloneClasses(s.Classes)
		out.Enrollments = append([]Enrollment{}, s.Enrollments...)
	case EntityTrails:
		out.Trails = append([]Trail{}, s.Trails...)
	case EntityModules:
		out.Modules = append([]Module{}, s.Modules...)
	case EntityContents:
		out.Contents = append([]Content{}, s.Contents...)
	case EntityEnrollments:
		out.Enrollments = append([]Enrollment{}, s.Enrollments...)
	case EntityMeetings:
		out.Meetings = append([]Meeting{}, s.Meetings...)
	case EntityCurrentUser:
		out.CurrentUser = cloneCurrentUser(s.CurrentUser)
	default:
		return s.Clone()
	}
	return out
}

func cloneUsers(in []User) []User {
	out := make([]User, len(in))
	for i, u := range in {
		u.Roles = append([]types.Role{}, u.Roles...)
		out[i] = u
	}
	return out
}

func cloneClasses(in []Class) []Class {
	out := make([]Class, len(in))
	for i, c := range in {
		c.ProfessorIDs = append([]uuid.UUID{}, c.ProfessorIDs...)
		c.TrailIDs = append([]uuid.UUID{}, c.TrailIDs...)
		out[i] = c
	}
	return out
}

func cloneCurrentUser(cu *types.CurrentUser) *types.CurrentUser {
	if cu == nil {
		return nil
	}
	c := *cu
	c.Roles = append([]types.Role{}, cu.Roles...)
	return &c
}

func (s *State) userIndex(id uuid.UUID) int {
	for i := range s.Users {
		if s.Users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) classIndex(id uuid.UUID) int {
	for i := range s.Classes {
		if s.Classes[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) trailIndex(id uuid.UUID) int {
	for i := range s.Trails {
		if s.Trails[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) moduleIndex(id uuid.UUID) int {
	for i := range s.Modules {
		if s.Modules[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) meetingIndex(id uuid.UUID) int {
	for i := range s.Meetings {
		if s.Meetings[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *State) enrollmentIndex(studentID, classID uuid.UUID) int {
	for i := range s.Enrollments {
		if s.Enrollments[i].StudentID == studentID && s.Enrollments[i].ClassID == classID {
			return i
		}
	}
	return -1
}

// StudentCount counts enrollments for a class.
func (s State) StudentCount(classID uuid.UUID) int {
	n := 0
	for _, e := range s.Enrollments {
		if e.ClassID == classID {
			n++
		}
	}
	return n
}
