package screening

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// MinJobDescriptionLength is the minimum length, in characters after
// trimming, of an acceptable job description.
const MinJobDescriptionLength = 20

// Document is a resume as uploaded: a name and its raw bytes.
type Document struct {
	Filename string
	Data     []byte
}

// Request is one screening run.
type Request struct {
	JobDescription string     `validate:"job_description"`
	Resumes        []Document `validate:"required,min=1"`
}

// ValidationError rejects a run before any processing.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// job_description checks the trimmed length against MinJobDescriptionLength.
	if err := v.RegisterValidation("job_description", func(fl validator.FieldLevel) bool {
		return utf8.RuneCountInString(fl.Field().String()) >= MinJobDescriptionLength
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the request on a trimmed copy of the job description.
func (r *Request) Validate() error {
	trimmed := Request{
		JobDescription: strings.TrimSpace(r.JobDescription),
		Resumes:        r.Resumes,
	}

	err := validate.Struct(&trimmed)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating request: %w", err)
	}

	switch fieldErrs[0].Field() {
	case "JobDescription":
		return &ValidationError{Message: fmt.Sprintf(
			"please provide a job description (paste or upload) of at least %d characters", MinJobDescriptionLength)}
	default:
		return &ValidationError{Message: "please upload one or more resumes"}
	}
}
