package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestIsValidDNI(t *testing.T) {
	assert.True(t, IsValidDNI("40123456"))
	assert.True(t, IsValidDNI("X1234567"))
	assert.False(t, IsValidDNI("40.123.456"))
	assert.False(t, IsValidDNI("123"))
	assert.False(t, IsValidDNI(""))
}

func TestIsValidClock(t *testing.T) {
	for _, ok := range []string{"00:00", "09:30", "17:45", "23:59"} {
		assert.True(t, IsValidClock(ok), ok)
	}
	for _, bad := range []string{"24:00", "9:30", "12:60", "12-30", ""} {
		assert.False(t, IsValidClock(bad), bad)
	}
}

func TestStringValidation(t *testing.T) {
	assert.True(t, NewStringValidation("Ajedrez").WithMinLength(2).WithMaxLength(50).Validate())
	assert.False(t, NewStringValidation("").Validate())
	assert.True(t, NewStringValidation("").WithRequired(false).WithMinLength(3).Validate())
	assert.False(t, NewStringValidation("A").WithMinLength(2).Validate())
	assert.False(t, NewStringValidation("12.3").WithPattern(CompiledPatterns.DNI).Validate())
}

func TestRegisterGinValidators(t *testing.T) {
	RegisterGinValidators()
	RegisterGinValidators()

	type slot struct {
		From string `binding:"required,hhmm"`
		DNI  string `binding:"required,dni"`
	}
	assert.NoError(t, binding.Validator.ValidateStruct(&slot{From: "10:00", DNI: "40123456"}))
	assert.Error(t, binding.Validator.ValidateStruct(&slot{From: "25:00", DNI: "40123456"}))
	assert.Error(t, binding.Validator.ValidateStruct(&slot{From: "10:00", DNI: "4-0"}))
}
