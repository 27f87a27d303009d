package course

import (
	"strings"

	apperrors "github.com/academix/records/pkg/errors"
)

// Validate normalizes a submitted course and checks its required fields
func Validate(in Input) (Input, error) {
	out := Input{
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		Credits:     in.Credits,
		Instructor:  strings.TrimSpace(in.Instructor),
		Capacity:    in.Capacity,
	}

	fields := make(map[string]string)
	if out.Code == "" {
		fields["code"] = "Course code is required"
	} else if len(out.Code) > 20 {
		fields["code"] = "Course code must not exceed 20 characters"
	}
	if out.Name == "" {
		fields["name"] = "Course name is required"
	} else if len(out.Name) > 255 {
		fields["name"] = "Course name must not exceed 255 characters"
	}
	if out.Credits <= 0 {
		fields["credits"] = "Credits are required"
	}
	if out.Capacity != nil && *out.Capacity < 0 {
		fields["capacity"] = "Capacity cannot be negative"
	}

	if len(fields) > 0 {
		return Input{}, apperrors.Validation("Validation failed", fields)
	}
	return out, nil
}
