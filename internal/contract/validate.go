package contract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs tag-based validation and flattens the failures into one readable error.
func ValidateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (received %v)", field, fe.Param(), fe.Value())
	case "numeric":
		return fmt.Sprintf("%s must be numeric (received %v)", field, fe.Value())
	case "gte", "lte", "gt", "lt", "min", "max":
		return fmt.Sprintf("%s must satisfy %s=%s (received %v)", field, fe.Tag(), fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("%s failed %q validation", field, fe.Tag())
	}
}
