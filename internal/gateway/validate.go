package gateway

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const msgEndBeforeStart = "the end of the booking cannot be earlier than the start of the booking"

// RegisterValidators installs the gateway rules on gin's validator engine. now is the
// clock used by the notpast and future tags.
func RegisterValidators(now func() time.Time) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("gin validator engine is not go-playground/validator")
	}

	v.RegisterTagNameFunc(fieldName)

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return err
	}
	if err := v.RegisterValidation("notpast", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && !t.Before(now())
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("future", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return ok && t.After(now())
	}); err != nil {
		return err
	}

	v.RegisterStructValidation(startBeforeEnd, BookItemRequest{})
	return nil
}

func startBeforeEnd(sl validator.StructLevel) {
	req := sl.Current().Interface().(BookItemRequest)
	if req.Start.IsZero() || req.End.IsZero() {
		return
	}
	if !req.Start.Before(req.End) {
		sl.ReportError(req.End, "end", "End", "startbeforeend", "")
	}
}

// fieldName reports fields by their wire name.
func fieldName(f reflect.StructField) string {
	for _, key := range []string{"json", "form", "uri"} {
		name := strings.SplitN(f.Tag.Get(key), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// bindingMessage turns a binding error into the message sent to the client.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s field cannot be empty", fe.Field())
	case "email":
		return "incorrectly entered email"
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be positive or zero", fe.Field())
	case "notpast":
		return fmt.Sprintf("%s cannot be in the past", fe.Field())
	case "future":
		return fmt.Sprintf("%s must be in the future", fe.Field())
	case "startbeforeend":
		return msgEndBeforeStart
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
