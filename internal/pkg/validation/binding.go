package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterGinValidators installs the custom tags (looseemail, contact) on gin's
// validator engine and makes field errors report JSON field names.
func RegisterGinValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		registerErr = Register(v)
	})
	return registerErr
}

// Register installs the custom tags on v
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonFieldName)

	if err := v.RegisterValidation("looseemail", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Email.MatchString(strings.TrimSpace(fl.Field().String()))
	}); err != nil {
		return err
	}
	return v.RegisterValidation("contact", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Contact.MatchString(fl.Field().String())
	})
}

func jsonFieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}
