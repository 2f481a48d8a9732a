package validator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Validate struct fields. Values that are not structs (maps, slices) carry no
// rules and always pass.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	errs := make(map[string]string)
	for _, e := range verrs {
		errs[e.Field()] = e.Tag()
	}
	return errs
}

// Check is Validate folded into a single error, fields sorted by name.
func Check(v interface{}) error {
	errs := Validate(v)
	if len(errs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for f, tag := range errs {
		fields = append(fields, f+"="+tag)
	}
	sort.Strings(fields)
	return fmt.Errorf("invalid fields: %s", strings.Join(fields, ", "))
}
