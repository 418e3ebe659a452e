package state

import (
	"errors"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/mathquest/internal/entity"
)

// inputValidate checks every request struct. Custom tags:
//
//	notblank  - string has a non-space character
//	topic     - a syllabus topic name
//	avatar    - one of entity.Avatars
//	groupcolor - one of entity.GroupColors
var inputValidate *validator.Validate

func init() {
	inputValidate = validator.New(validator.WithRequiredStructEnabled())
	_ = inputValidate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = inputValidate.RegisterValidation("topic", func(fl validator.FieldLevel) bool {
		return entity.IsTopic(fl.Field().String())
	})
	_ = inputValidate.RegisterValidation("avatar", func(fl validator.FieldLevel) bool {
		return slices.Contains(entity.Avatars, fl.Field().String())
	})
	_ = inputValidate.RegisterValidation("groupcolor", func(fl validator.FieldLevel) bool {
		return slices.Contains(entity.GroupColors, fl.Field().String())
	})
}

type problemInput struct {
	ID           string   `validate:"required"`
	Question     string   `validate:"notblank"`
	Options      []string `validate:"len=4,dive,notblank"`
	CorrectIndex int      `validate:"gte=0,lte=3"`
	Topic        string   `validate:"topic"`
	Difficulty   int      `validate:"gte=1,lte=3"`
}

func problemInputOf(p entity.MathProblem) problemInput {
	return problemInput{
		ID:           p.ID,
		Question:     p.Question,
		Options:      p.Options,
		CorrectIndex: p.CorrectIndex,
		Topic:        p.Topic,
		Difficulty:   int(p.Difficulty),
	}
}

type groupInput struct {
	Name  string `validate:"notblank,max=40"`
	Code  string `validate:"alphanum,min=3,max=12"`
	Icon  string `validate:"notblank"`
	Color string `validate:"groupcolor"`
}

type rewardInput struct {
	Name         string `validate:"notblank,max=60"`
	PointsNeeded int    `validate:"gte=10,lte=1000000"`
}

type profileInput struct {
	Name        string `validate:"max=40"`
	Description string `validate:"max=280"`
	Avatar      string `validate:"avatar"`
}

type commentInput struct {
	Text string `validate:"notblank,max=500"`
}

// validate runs the struct tags on in and converts failures to a
// *ValidationError.
func validate(in any) error {
	err := inputValidate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ve := &ValidationError{}
	for _, fe := range verrs {
		ve.Fields = append(ve.Fields, FieldProblem{
			Field:  fieldLabel(fe.Field()),
			Reason: reason(fe),
		})
	}
	return ve
}

func fieldLabel(f string) string {
	switch f {
	case "PointsNeeded":
		return "points needed"
	case "CorrectIndex":
		return "correct index"
	default:
		return strings.ToLower(f)
	}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		if fe.Kind().String() == "string" {
			return "must be at most " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "len":
		return "must have exactly " + fe.Param() + " entries"
	case "alphanum":
		return "must contain only letters and digits"
	case "topic":
		return "must be one of " + strings.Join(entity.Topics, ", ")
	case "avatar":
		return "is not an available avatar"
	case "groupcolor":
		return "must be one of " + strings.Join(entity.GroupColors, ", ")
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
