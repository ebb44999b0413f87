package ledger

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/vi13x/antc-trx/internal/domain"
)

var (
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// Indonesian mobile: +62 / 62 / 0, then 8, a non-zero operator digit and 6-9 more digits.
	phoneRe = regexp.MustCompile(`^(\+62|62|0)8[1-9][0-9]{6,9}$`)
)

var formatMessages = map[string]string{
	"order_email": "Format email tidak valid!",
	"id_phone":    "Format nomor WhatsApp tidak valid!",
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "filled", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "order_email", func(fl validator.FieldLevel) bool {
		return emailRe.MatchString(fl.Field().String())
	})
	mustRegister(v, "id_phone", func(fl validator.FieldLevel) bool {
		return phoneRe.MatchString(fl.Field().String())
	})
	return v
}

// validateOrder reports the first failing field: blanks in form order, then
// email, then phone.
func validateOrder(v *validator.Validate, in domain.OrderInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	for _, fe := range fields {
		if fe.Tag() == "filled" {
			return domain.NewValidationError(fe.Field(), "Field "+fe.Field()+" harus diisi!")
		}
	}
	fe := fields[0]
	return domain.NewValidationError(fe.Field(), formatMessages[fe.Tag()])
}
