package apperror

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	payloadValidator     *validator.Validate
	payloadValidatorOnce sync.Once
)

// Init makes gin's binding validator report json field names.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// Validator returns the shared validator used outside of gin binding,
// e.g. for request payloads decoded from raw JSON.
func Validator() *validator.Validate {
	payloadValidatorOnce.Do(func() {
		payloadValidator = validator.New(validator.WithRequiredStructEnabled())
		payloadValidator.RegisterTagNameFunc(jsonTagName)
	})
	return payloadValidator
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}
