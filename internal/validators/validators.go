package validators

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/trucking-desk/internal/domain/access"
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	registerOnce sync.Once
)

// Register installs the custom tags on gin's validator and makes field
// errors report json names. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		Install(v)
	})
}

// Install adds the custom tags to v.
func Install(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("phone", validatePhone)
	_ = v.RegisterValidation("role", validateRole)
}

func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

func validatePhone(fl validator.FieldLevel) bool {
	return IsPhone(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := access.ParseRole(fl.Field().String())
	return ok
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}
