// Package validate registers the custom binding rules used by request DTOs.
package validate

import (
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	telegramPattern = regexp.MustCompile(`^@[A-Za-z0-9_]{3,32}$`)
	phonePattern    = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)
	pixelPattern    = regexp.MustCompile(`^[A-Za-z0-9-]{1,50}$`)

	standalone = validator.New()
	once       sync.Once
	onceErr    error
)

// Register installs the custom rules on gin's default validator. Safe to call more than once.
func Register() error {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		onceErr = RegisterOn(v)
	})
	return onceErr
}

// RegisterOn installs the custom rules on v.
func RegisterOn(v *validator.Validate) error {
	if err := v.RegisterValidation("contact_method", func(fl validator.FieldLevel) bool {
		return IsContactMethod(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("pixel_id", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return value == "" || pixelPattern.MatchString(value)
	})
}

// IsEmail reports whether s is a single valid email address.
func IsEmail(s string) bool {
	return s != "" && standalone.Var(s, "required,email") == nil
}

// IsTelegram reports whether s looks like a Telegram handle such as @prometey.
func IsTelegram(s string) bool {
	return telegramPattern.MatchString(s)
}

// IsPhone reports whether s looks like a phone number.
func IsPhone(s string) bool {
	if !phonePattern.MatchString(s) {
		return false
	}
	digits := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= 7
}

// IsContactMethod accepts an email, a Telegram handle or a phone number.
func IsContactMethod(s string) bool {
	s = strings.TrimSpace(s)
	return IsEmail(s) || IsTelegram(s) || IsPhone(s)
}
