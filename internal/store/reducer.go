package store

import (
	"fmt"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

// apply mutates s in place. Callers pass a clone so a failed command leaves
// the committed state untouched.
func apply(s *State, cmd Command) error {
	switch p := cmd.Payload.(type) {
	case CreateClass:
		if s.classIndex(p.ID) >= 0 {
			return fmt.Errorf("%w: class %s exists", ErrInvalidCommand, p.ID)
		}
		status := p.Status
		if status == "" {
			status = types.ClassActive
		}
		s.Classes = append(s.Classes, Class{
			ID:           p.ID,
			Name:         p.Name,
			Description:  p.Description,
			Status:       status,
			ProfessorIDs: dedupe(p.ProfessorIDs),
			TrailIDs:     dedupe(p.TrailIDs),
		})

	case UpdateClass:
		i := s.classIndex(p.ID)
		if i < 0 {
			return fmt.Errorf("%w: class %s", ErrUnknownEntity, p.ID)
		}
		c := &s.Classes[i]
		if p.Name != nil {
			c.Name = *p.Name
		}
		if p.Description != nil {
			c.Description = *p.Description
		}
		if p.Status != nil {
			c.Status = *p.Status
		}
		if p.ProfessorIDs != nil {
			c.ProfessorIDs = dedupe(p.ProfessorIDs)
		}
		if p.TrailIDs != nil {
			c.TrailIDs = dedupe(p.TrailIDs)
		}

	case DeleteClass:
		i := s.classIndex(p.ID)
		if i < 0 {
			return fmt.Errorf("%w: class %s", ErrUnknownEntity, p.ID)
		}
		s.Classes = append(s.Classes[:i], s.Classes[i+1:]...)
		s.Enrollments = filterEnrollments(s.Enrollments, func(e Enrollment) bool { return e.ClassID != p.ID })
		s.Meetings = filterMeetings(s.Meetings, func(m Meeting) bool { return m.ClassID != p.ID })

	case AddUser:
		if s.userIndex(p.ID) >= 0 {
			return fmt.Errorf("%w: user %s exists", ErrInvalidCommand, p.ID)
		}
		s.Users = append(s.Users, User{
			ID:    p.ID,
			Name:  p.Name,
			Email: p.Email,
			Roles: types.NormalizeRoles(p.Roles),
		})

	case SetUserRoles:
		i := s.userIndex(p.UserID)
		if i < 0 {
			return fmt.Errorf("%w: user %s", ErrUnknownEntity, p.UserID)
		}
		s.Users[i].Roles = types.NormalizeRoles(p.Roles)

	case RemoveUser:
		i := s.userIndex(p.ID)
		if i < 0 {
			return fmt.Errorf("%w: user %s", ErrUnknownEntity, p.ID)
		}
		s.Users = append(s.Users[:i], s.Users[i+1:]...)
		s.Enrollments = filterEnrollments(s.Enrollments, func(e Enrollment) bool { return e.StudentID != p.ID })
		for j := range s.Classes {
			s.Classes[j].ProfessorIDs = without(s.Classes[j].ProfessorIDs, p.ID)
		}

	case CreateTrail:
		if s.trailIndex(p.ID) >= 0 {
			return fmt.Errorf("%w: trail %s exists", ErrInvalidCommand, p.ID)
		}
		s.Trails = append(s.Trails, Trail{ID: p.ID, Name: p.Name, Description: p.Description})

	case CreateModule:
		if s.trailIndex(p.TrailID) < 0 {
			return fmt.Errorf("%w: trail %s", ErrUnknownEntity, p.TrailID)
		}
		if s.moduleIndex(p.ID) >= 0 {
			return fmt.Errorf("%w: module %s exists", ErrInvalidCommand, p.ID)
		}
		next := 0
		for _, m := range s.Modules {
			if m.TrailID == p.TrailID && m.OrderIndex >= next {
				next = m.OrderIndex + 1
			}
		}
		s.Modules = append(s.Modules, Module{ID: p.ID, TrailID: p.TrailID, Title: p.Title, OrderIndex: next})

	case CreateContent:
		if s.moduleIndex(p.ModuleID) < 0 {
			return fmt.Errorf("%w: module %s", ErrUnknownEntity, p.ModuleID)
		}
		next := 0
		for _, c := range s.Contents {
			if c.ID == p.ID {
				return fmt.Errorf("%w: content %s exists", ErrInvalidCommand, p.ID)
			}
			if c.ModuleID == p.ModuleID && c.OrderIndex >= next {
				next = c.OrderIndex + 1
			}
		}
		s.Contents = append(s.Contents, Content{
			ID:              p.ID,
			ModuleID:        p.ModuleID,
			Title:           p.Title,
			Type:            p.Type,
			URL:             p.URL,
			DurationSeconds: p.DurationSeconds,
			OrderIndex:      next,
		})

	case EnrollStudent:
		if s.classIndex(p.ClassID) < 0 {
			return fmt.Errorf("%w: class %s", ErrUnknownEntity, p.ClassID)
		}
		if s.enrollmentIndex(p.StudentID, p.ClassID) >= 0 {
			return nil
		}
		s.Enrollments = append(s.Enrollments, Enrollment{StudentID: p.StudentID, ClassID: p.ClassID})

	case SetEnrollmentProgress:
		i := s.enrollmentIndex(p.StudentID, p.ClassID)
		if i < 0 {
			return fmt.Errorf("%w: enrollment %s/%s", ErrUnknownEntity, p.StudentID, p.ClassID)
		}
		s.Enrollments[i].Progress = types.ClampPercent(p.Progress)

	case CreateMeeting:
		if s.classIndex(p.ClassID) < 0 {
			return fmt.Errorf("%w: class %s", ErrUnknownEntity, p.ClassID)
		}
		if s.meetingIndex(p.ID) >= 0 {
			return fmt.Errorf("%w: meeting %s exists", ErrInvalidCommand, p.ID)
		}
		s.Meetings = append(s.Meetings, Meeting{
			ID:              p.ID,
			ClassID:         p.ClassID,
			Title:           p.Title,
			ScheduledAt:     p.ScheduledAt.UTC(),
			DurationMinutes: p.DurationMinutes,
			Status:          types.MeetingScheduled,
		})

	case SetMeetingStatus:
		i := s.meetingIndex(p.ID)
		if i < 0 {
			return fmt.Errorf("%w: meeting %s", ErrUnknownEntity, p.ID)
		}
		if !types.CanTransition(s.Meetings[i].Status, p.Status) {
			return fmt.Errorf("%w: meeting %s cannot move %s -> %s", ErrInvalidCommand, p.ID, s.Meetings[i].Status, p.Status)
		}
		s.Meetings[i].Status = p.Status

	case DeleteMeeting:
		i := s.meetingIndex(p.ID)
		if i < 0 {
			return fmt.Errorf("%w: meeting %s", ErrUnknownEntity, p.ID)
		}
		s.Meetings = append(s.Meetings[:i], s.Meetings[i+1:]...)

	case SetCurrentUser:
		if p.User.ID == uuid.Nil {
			return fmt.Errorf("%w: current user id is required", ErrInvalidCommand)
		}
		if s.CurrentUserOwner == OwnerSession && p.Owner != OwnerSession {
			return ErrCurrentUserOwned
		}
		cu := p.User
		cu.Roles = append([]types.Role{}, types.NormalizeRoles(cu.Roles)...)
		if !cu.Role.Valid() {
			cu.Role = types.PrimaryRole(cu.Roles)
		}
		s.CurrentUser = &cu
		s.CurrentUserOwner = p.Owner

	case ClearCurrentUser:
		if s.CurrentUserOwner == OwnerSession && p.Owner != OwnerSession {
			return ErrCurrentUserOwned
		}
		s.CurrentUser = nil
		s.CurrentUserOwner = OwnerNone

	default:
		return fmt.Errorf("%w: unsupported payload %T for %s", ErrInvalidCommand, cmd.Payload, cmd.Name)
	}
	return nil
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func without(ids []uuid.UUID, drop uuid.UUID) []uuid.UUID {
	out := ids[:0]
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func filterEnrollments(in []Enrollment, keep func(Enrollment) bool) []Enrollment {
	out := make([]Enrollment, 0, len(in))
	for _, e := range in {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func filterMeetings(in []Meeting, keep func(Meeting) bool) []Meeting {
	out := make([]Meeting, 0, len(in))
	for _, m := range in {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}
