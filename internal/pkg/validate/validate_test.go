package validate

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsContactMethod(t *testing.T) {
	valid := []string{"olena@example.com", "@prometey_labs", "+380 (67) 123-45-67", "0671234567"}
	invalid := []string{"", "@", "@ab", "hello", "12-34", "<script>@x.com"}

	for _, s := range valid {
		assert.True(t, IsContactMethod(s), s)
	}
	for _, s := range invalid {
		assert.False(t, IsContactMethod(s), s)
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@example.com"))
	assert.False(t, IsEmail("@telegram"))
	assert.False(t, IsEmail(""))
}

type pixelForm struct {
	Google  string `validate:"omitempty,pixel_id"`
	Contact string `validate:"required,contact_method"`
}

func TestRegisterOn(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	assert.NoError(t, v.Struct(pixelForm{Google: "G-ABC123", Contact: "@prometey"}))
	assert.NoError(t, v.Struct(pixelForm{Contact: "a@example.com"}))
	assert.Error(t, v.Struct(pixelForm{Google: "G-1');alert(1);//", Contact: "a@example.com"}))
	assert.Error(t, v.Struct(pixelForm{Contact: "nobody"}))
}

func TestRegisterIsIdempotent(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}
