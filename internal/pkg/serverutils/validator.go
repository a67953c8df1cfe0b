package serverutils

import (
	"fmt"
	"strings"

	"video-saas-be/internal/entity"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks the `validate` tags of req.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", entity.ErrInvalidRequest, err)
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", entity.ErrInvalidRequest, strings.Join(messages, ", "))
}
