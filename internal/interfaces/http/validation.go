package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once

	errBodyParse = errors.New("cuerpo inválido")
)

// getValidator validador compartido; los mensajes usan el nombre JSON del campo.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// bindBody parsea el body y aplica las reglas `validate` del DTO.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fmt.Errorf("%w: %v", errBodyParse, err)
	}
	if err := getValidator().Struct(out); err != nil {
		var fields validator.ValidationErrors
		if errors.As(err, &fields) && len(fields) > 0 {
			return fieldError(fields[0])
		}
		return err
	}
	return nil
}

func fieldError(fe validator.FieldError) error {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s es requerido", field)
	case "min":
		return fmt.Errorf("%s debe tener al menos %s", field, fe.Param())
	case "max":
		return fmt.Errorf("%s excede %s caracteres", field, fe.Param())
	case "len":
		return fmt.Errorf("%s debe tener %s caracteres", field, fe.Param())
	case "nefield":
		return fmt.Errorf("%s no puede ser igual a %s", field, fe.Param())
	default:
		return fmt.Errorf("%s no cumple la regla %s", field, fe.Tag())
	}
}

// bodyError responde 400 INVALID_BODY si no se pudo parsear o 400 VALIDATION si falló una regla.
func bodyError(c *fiber.Ctx, err error) error {
	if errors.Is(err, errBodyParse) {
		return badBody(c)
	}
	return validation(c, err.Error())
}
