package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Restaurante-api/internal/application/dto"
	"github.com/jhoicas/Restaurante-api/internal/domain"
)

var validate = validator.New()

func init() {
	// decimal.Decimal se valida como número (min=0 en price).
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	// Los campos se reportan con su nombre JSON.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return fld.Name
	})
}

// validationError lista los campos inválidos (campo → regla que falló).
type validationError struct {
	fields map[string]string
}

func (e *validationError) Error() string { return "validación fallida" }

// bindAndValidate parsea el body JSON y corre los tags de go-playground/validator.
func bindAndValidate(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return domain.InvalidArgument("cuerpo inválido: %v", err)
	}
	return validateStruct(req)
}

// bindQuery parsea los query params y los valida.
func bindQuery(c *fiber.Ctx, req interface{}) error {
	if err := c.QueryParser(req); err != nil {
		return domain.InvalidArgument("parámetros inválidos: %v", err)
	}
	return validateStruct(req)
}

func validateStruct(req interface{}) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return domain.InvalidArgument("datos inválidos")
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		return &validationError{fields: fields}
	}
	return nil
}

// statusFor traduce el Kind del error de dominio a status HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidArgument:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindConflict, domain.KindInsufficientStock, domain.KindReferentialConflict:
		return fiber.StatusConflict
	case domain.KindUnauthorized:
		return fiber.StatusUnauthorized
	case domain.KindForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError escribe el cuerpo {code, message, fields?}. Los errores que no son de
// dominio se registran y se devuelven con un mensaje genérico.
func writeError(c *fiber.Ctx, err error) error {
	var ve *validationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    string(domain.KindInvalidArgument),
			Message: "datos inválidos",
			Fields:  ve.fields,
		})
	}
	kind := domain.KindOf(err)
	msg := domain.MessageOf(err)
	if kind == domain.KindInternal {
		log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		msg = "error interno del servidor"
	}
	return c.Status(statusFor(kind)).JSON(dto.ErrorResponse{Code: string(kind), Message: msg})
}
