package service

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/yourname/blackholeescape/internal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("timerange", func(fl validator.FieldLevel) bool {
		_, _, ok := ParseTimeRange(fl.Field().String())
		return ok
	})
	return v
}

type AnalyzeRequest struct {
	Profile  internal.UserProfile `json:"profile"`
	Schedule internal.Schedule    `json:"schedule" validate:"required,max=48,dive"`
}

type ScheduleRequest struct {
	Profile internal.UserProfile `json:"profile" yaml:"profile"`
	Slots   internal.Schedule    `json:"slots" yaml:"slots" validate:"required,max=48,dive"`
}

// CircleRequest only needs the number of completed projects; their content is ignored.
type CircleRequest struct {
	CompletedProjects []json.RawMessage `json:"completed_projects"`
	CurrentLevel      float64           `json:"current_level" validate:"gte=0,lte=50"`
}

func ValidateAnalyzeRequest(req *AnalyzeRequest) error {
	return validate.Struct(req)
}

func ValidateScheduleRequest(req *ScheduleRequest) error {
	return validate.Struct(req)
}

func ValidateCircleRequest(req *CircleRequest) error {
	return validate.Struct(req)
}

// ValidateLogin checks a login taken from a URL path.
func ValidateLogin(login string) error {
	return validate.Var(login, "required,max=64,printascii,excludesall=/?#")
}
