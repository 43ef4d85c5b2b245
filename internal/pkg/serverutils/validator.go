package serverutils

import (
	"fmt"
	"regexp"

	"book-chatbot-be/internal/service"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

var threadIdRule = regexp.MustCompile(`^[A-Za-z0-9_-]{1,255}$`)

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("thread_id", func(fl validator.FieldLevel) bool {
		return threadIdRule.MatchString(fl.Field().String())
	})
	return v
}

// ValidateStruct checks a request DTO against its validate tags and
// converts the first failure into a client-facing validation error.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return service.NewValidationError(fmt.Sprintf("field %s failed on the %s rule", first.Field(), first.Tag()))
	}
	return service.NewValidationError("invalid request body")
}
