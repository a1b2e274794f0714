package store

import "fmt"

// Entity names one slice of client-visible state.
type Entity string

const (
	EntityUsers       Entity = "users"
	EntityClasses     Entity = "classes"
	EntityTrails      Entity = "trails"
	EntityModules     Entity = "modules"
	EntityContents    Entity = "contents"
	EntityEnrollments Entity = "enrollments"
	EntityMeetings    Entity = "meetings"
	EntityCurrentUser Entity = "current_user"
)

var allEntities = []Entity{
	EntityUsers,
	EntityClasses,
	EntityTrails,
	EntityModules,
	EntityContents,
	EntityEnrollments,
	EntityMeetings,
	EntityCurrentUser,
}

// Source is the side that owns the authoritative copy of an entity.
type Source string

const (
	SourceRemote Source = "remote"
	SourceLocal  Source = "local"
)

// Authority maps every entity to exactly one source.
type Authority map[Entity]Source

// DefaultAuthority returns the catalogue owned locally in demo mode and
// remotely otherwise. The current user slot is always held locally.
func DefaultAuthority(demo bool) Authority {
	src := SourceRemote
	if demo {
		src = SourceLocal
	}
	a := Authority{}
	for _, e := range allEntities {
		a[e] = src
	}
	a[EntityCurrentUser] = SourceLocal
	return a
}

// Validate rejects maps that leave an entity unassigned or use an unknown source.
func (a Authority) Validate() error {
	for _, e := range allEntities {
		switch a[e] {
		case SourceRemote, SourceLocal:
		case "":
			return fmt.Errorf("authority: entity %q has no source", e)
		default:
			return fmt.Errorf("authority: entity %q has unknown source %q", e, a[e])
		}
	}
	return nil
}

func (a Authority) Of(e Entity) Source { return a[e] }

// Accepts reports whether a command of the given origin may write e.
func (a Authority) Accepts(e Entity, origin Origin) bool {
	switch origin {
	case OriginLocal:
		return a[e] == SourceLocal
	case OriginMirror:
		return a[e] == SourceRemote
	default:
		return false
	}
}

func (a Authority) clone() Authority {
	out := make(Authority, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
