package store

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	types "github.com/yungbote/classroom-backend/internal/domain"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return types.Role(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("class_status", func(fl validator.FieldLevel) bool {
		return types.ClassStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		return types.ContentType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("meeting_status", func(fl validator.FieldLevel) bool {
		return types.MeetingStatus(fl.Field().String()).Valid()
	})
	return v
}

// validatePayload reports the first failing field by its json name.
func validatePayload(v *validator.Validate, payload any) error {
	if payload == nil {
		return fmt.Errorf("%w: missing payload", ErrInvalidCommand)
	}
	if err := v.Struct(payload); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: field %q failed %q", ErrInvalidCommand, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}
	return nil
}
