package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

type CommandName string

const (
	CmdCreateClass           CommandName = "CreateClass"
	CmdUpdateClass           CommandName = "UpdateClass"
	CmdDeleteClass           CommandName = "DeleteClass"
	CmdAddUser               CommandName = "AddUser"
	CmdSetUserRoles          CommandName = "SetUserRoles"
	CmdRemoveUser            CommandName = "RemoveUser"
	CmdCreateTrail           CommandName = "CreateTrail"
	CmdCreateModule          CommandName = "CreateModule"
	CmdCreateContent         CommandName = "CreateContent"
	CmdEnrollStudent         CommandName = "EnrollStudent"
	CmdSetEnrollmentProgress CommandName = "SetEnrollmentProgress"
	CmdCreateMeeting         CommandName = "CreateMeeting"
	CmdSetMeetingStatus      CommandName = "SetMeetingStatus"
	CmdDeleteMeeting         CommandName = "DeleteMeeting"
	CmdSetCurrentUser        CommandName = "SetCurrentUser"
	CmdClearCurrentUser      CommandName = "ClearCurrentUser"
)

// Origin tells the store where a mutation comes from. Local commands are
// user actions against locally owned data; mirror commands copy a write the
// remote side already confirmed.
type Origin string

const (
	OriginLocal  Origin = "local"
	OriginMirror Origin = "mirror"
)

// Command is one named, validated mutation.
type Command struct {
	Name    CommandName `json:"name"`
	Origin  Origin      `json:"origin"`
	Payload any         `json:"payload"`
}

type CreateClass struct {
	ID           uuid.UUID         `json:"id" validate:"required"`
	Name         string            `json:"name" validate:"notblank"`
	Description  string            `json:"description"`
	Status       types.ClassStatus `json:"status" validate:"omitempty,class_status"`
	ProfessorIDs []uuid.UUID       `json:"professor_ids"`
	TrailIDs     []uuid.UUID       `json:"trail_ids"`
}

type UpdateClass struct {
	ID           uuid.UUID          `json:"id" validate:"required"`
	Name         *string            `json:"name,omitempty" validate:"omitempty,notblank"`
	Description  *string            `json:"description,omitempty"`
	Status       *types.ClassStatus `json:"status,omitempty" validate:"omitempty,class_status"`
	ProfessorIDs []uuid.UUID        `json:"professor_ids,omitempty"`
	TrailIDs     []uuid.UUID        `json:"trail_ids,omitempty"`
}

type DeleteClass struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type AddUser struct {
	ID    uuid.UUID    `json:"id" validate:"required"`
	Name  string       `json:"name" validate:"notblank"`
	Email string       `json:"email" validate:"omitempty,email"`
	Roles []types.Role `json:"roles" validate:"dive,role"`
}

type SetUserRoles struct {
	UserID uuid.UUID    `json:"user_id" validate:"required"`
	Roles  []types.Role `json:"roles" validate:"dive,role"`
}

type RemoveUser struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

type CreateTrail struct {
	ID          uuid.UUID `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"notblank"`
	Description string    `json:"description"`
}

type CreateModule struct {
	ID      uuid.UUID `json:"id" validate:"required"`
	TrailID uuid.UUID `json:"trail_id" validate:"required"`
	Title   string    `json:"title" validate:"notblank"`
}

type CreateContent struct {
	ID              uuid.UUID         `json:"id" validate:"required"`
	ModuleID        uuid.UUID         `json:"module_id" validate:"required"`
	Title           string            `json:"title" validate:"notblank"`
	Type            types.ContentType `json:"type" validate:"content_type"`
	URL             string            `json:"url" validate:"omitempty,url"`
	DurationSeconds int               `json:"duration_seconds" validate:"gte=0"`
}

type EnrollStudent struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
}

type SetEnrollmentProgress struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	ClassID   uuid.UUID `json:"class_id" validate:"required"`
	Progress  int       `json:"progress" validate:"gte=0,lte=100"`
}

type CreateMeeting struct {
	ID              uuid.UUID `json:"id" validate:"required"`
	ClassID         uuid.UUID `json:"class_id" validate:"required"`
	Title           string    `json:"title" validate:"notblank"`
	ScheduledAt     time.Time `json:"scheduled_at" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"gte=0"`
}

type SetMeetingStatus struct {
	ID     uuid.UUID           `json:"id" validate:"required"`
	Status types.MeetingStatus `json:"status" validate:"meeting_status"`
}

type DeleteMeeting struct {
	ID uuid.UUID `json:"id" validate:"required"`
}

// SetCurrentUser and ClearCurrentUser carry their owner out of band. Decoded
// commands are always demo-owned; only the store's session methods write as
// the session.
type SetCurrentUser struct {
	User  types.CurrentUser `json:"user"`
	Owner Owner             `json:"-" validate:"oneof=demo session"`
}

type ClearCurrentUser struct {
	Owner Owner `json:"-"`
}

var payloadFactories = map[CommandName]func() any{
	CmdCreateClass:           func() any { return &CreateClass{} },
	CmdUpdateClass:           func() any { return &UpdateClass{} },
	CmdDeleteClass:           func() any { return &DeleteClass{} },
	CmdAddUser:               func() any { return &AddUser{} },
	CmdSetUserRoles:          func() any { return &SetUserRoles{} },
	CmdRemoveUser:            func() any { return &RemoveUser{} },
	CmdCreateTrail:           func() any { return &CreateTrail{} },
	CmdCreateModule:          func() any { return &CreateModule{} },
	CmdCreateContent:         func() any { return &CreateContent{} },
	CmdEnrollStudent:         func() any { return &EnrollStudent{} },
	CmdSetEnrollmentProgress: func() any { return &SetEnrollmentProgress{} },
	CmdCreateMeeting:         func() any { return &CreateMeeting{} },
	CmdSetMeetingStatus:      func() any { return &SetMeetingStatus{} },
	CmdDeleteMeeting:         func() any { return &DeleteMeeting{} },
	CmdSetCurrentUser:        func() any { return &SetCurrentUser{} },
	CmdClearCurrentUser:      func() any { return &ClearCurrentUser{} },
}

// entityOf names the slice a command writes.
func entityOf(name CommandName) Entity {
	switch name {
	case CmdCreateClass, CmdUpdateClass, CmdDeleteClass:
		return EntityClasses
	case CmdAddUser, CmdSetUserRoles, CmdRemoveUser:
		return EntityUsers
	case CmdCreateTrail:
		return EntityTrails
	case CmdCreateModule:
		return EntityModules
	case CmdCreateContent:
		return EntityContents
	case CmdEnrollStudent, CmdSetEnrollmentProgress:
		return EntityEnrollments
	case CmdCreateMeeting, CmdSetMeetingStatus, CmdDeleteMeeting:
		return EntityMeetings
	case CmdSetCurrentUser, CmdClearCurrentUser:
		return EntityCurrentUser
	default:
		return ""
	}
}

// DecodeCommand builds a typed command from its wire form.
func DecodeCommand(name CommandName, origin Origin, raw json.RawMessage) (Command, error) {
	factory, ok := payloadFactories[name]
	if !ok {
		return Command{}, fmt.Errorf("%w: unknown command %q", ErrInvalidCommand, name)
	}
	payload := factory()
	if len(raw) > 0 && string(raw) != "null" {
		if err := json.Unmarshal(raw, payload); err != nil {
			return Command{}, fmt.Errorf("%w: decode %s: %v", ErrInvalidCommand, name, err)
		}
	}
	switch p := payload.(type) {
	case *SetCurrentUser:
		p.Owner = OwnerDemo
	case *ClearCurrentUser:
		p.Owner = OwnerDemo
	}
	return Command{Name: name, Origin: origin, Payload: deref(payload)}, nil
}

func deref(p any) any {
	switch v := p.(type) {
	case *CreateClass:
		return *v
	case *UpdateClass:
		return *v
	case *DeleteClass:
		return *v
	case *AddUser:
		return *v
	case *SetUserRoles:
		return *v
	case *RemoveUser:
		return *v
	case *CreateTrail:
		return *v
	case *CreateModule:
		return *v
	case *CreateContent:
		return *v
	case *EnrollStudent:
		return *v
	case *SetEnrollmentProgress:
		return *v
	case *CreateMeeting:
		return *v
	case *SetMeetingStatus:
		return *v
	case *DeleteMeeting:
		return *v
	case *SetCurrentUser:
		return *v
	case *ClearCurrentUser:
		return *v
	default:
		return p
	}
}

// Local and Mirror are shorthands for building commands in code.
func Local(name CommandName, payload any) Command {
	return Command{Name: name, Origin: OriginLocal, Payload: payload}
}

func Mirror(name CommandName, payload any) Command {
	return Command{Name: name, Origin: OriginMirror, Payload: payload}
}
