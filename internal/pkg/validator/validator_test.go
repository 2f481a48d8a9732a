package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type payload struct {
	Email string `validate:"required,email"`
	Name  string `validate:"required"`
}

func TestValidate_ReportsFailingFields(t *testing.T) {
	errs := Validate(payload{Email: "nope"})
	assert.Equal(t, map[string]string{"Email": "email", "Name": "required"}, errs)

	assert.Nil(t, Validate(payload{Email: "a@b.co", Name: "Ann"}))
}

func TestValidate_NonStructPasses(t *testing.T) {
	assert.Nil(t, Validate(map[string]any{"role": "admin"}))
	assert.NoError(t, Check([]string{"x"}))
}

func TestCheck_SortsFields(t *testing.T) {
	err := Check(&payload{})
	assert.EqualError(t, err, "invalid fields: Email=required, Name=required")
}
