// Package validation envuelve go-playground/validator con las reglas propias de la API.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout formato de fecha calendario aceptado en toda la API.
const DateLayout = time.DateOnly

var roles = map[string]bool{"admin": true, "solicitante": true, "taller": true, "visitante": true}

// Validator valida DTOs por sus etiquetas `validate`.
type Validator struct {
	v *validator.Validate
}

// New crea el validador y registra las reglas "date", "month" y "role".
// Si una regla no se puede registrar se hace panic: el servidor no debe arrancar a medias.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	must(v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("month", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01", fl.Field().String())
		return err == nil
	}))
	must(v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return roles[fl.Field().String()]
	}))
	return &Validator{v: v}
}

func must(err error) {
	if err != nil {
		panic("registro de validaciones: " + err.Error())
	}
}

// Struct valida s y devuelve un error legible con el primer campo inválido.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s es requerido", fe.Field())
	case "date":
		return fmt.Errorf("%s debe tener formato AAAA-MM-DD", fe.Field())
	case "month":
		return fmt.Errorf("%s debe tener formato AAAA-MM", fe.Field())
	case "role":
		return fmt.Errorf("%s debe ser admin, solicitante, taller o visitante", fe.Field())
	case "min", "max", "gte", "lte":
		return fmt.Errorf("%s fuera de rango (%s=%s)", fe.Field(), fe.Tag(), fe.Param())
	case "email":
		return fmt.Errorf("%s no es un email válido", fe.Field())
	default:
		return fmt.Errorf("%s inválido (%s)", fe.Field(), fe.Tag())
	}
}
