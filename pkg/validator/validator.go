package validator

import (
	"reflect"
	"strings"

	"blood-donor-service/internal/domain/entity"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()

	// report fields by their JSON names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	_ = v.RegisterValidation("bloodgroup", func(fl validator.FieldLevel) bool {
		return entity.BloodGroup(fl.Field().String()).IsValid()
	})

	return &CustomValidator{
		validator: v,
	}
}

func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.InexactFloat64()
	}
	return nil
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	errors := make(map[string]string)

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrors {
			field := e.Field()
			switch e.Tag() {
			case "required":
				errors[field] = field + " is required"
			case "email":
				errors[field] = field + " must be a valid email address"
			case "min":
				errors[field] = field + " must be at least " + e.Param() + sizeUnit(e)
			case "max":
				errors[field] = field + " must be at most " + e.Param() + sizeUnit(e)
			case "gt":
				errors[field] = field + " must be greater than " + e.Param()
			case "gte":
				errors[field] = field + " must be greater than or equal to " + e.Param()
			case "lte":
				errors[field] = field + " must be less than or equal to " + e.Param()
			case "oneof":
				errors[field] = field + " must be one of: " + strings.Join(strings.Fields(e.Param()), ", ")
			case "bloodgroup":
				errors[field] = field + " must be one of: " + strings.Join(bloodGroupNames(), ", ")
			case "datetime":
				errors[field] = field + " must be a date in YYYY-MM-DD format"
			default:
				errors[field] = field + " is invalid"
			}
		}
	}

	return errors
}

func sizeUnit(e validator.FieldError) string {
	switch e.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	case reflect.String:
		return " characters"
	}
	return ""
}

func bloodGroupNames() []string {
	names := make([]string, len(entity.BloodGroups))
	for i, bg := range entity.BloodGroups {
		names[i] = string(bg)
	}
	return names
}
