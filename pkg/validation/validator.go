// Package validation centraliza a validação de filtros e consultas
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/vfg2006/sales-analytics/internal/domain"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Validator retorna a instância compartilhada com as regras customizadas registradas
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New()

		// usa o nome do campo json nas mensagens
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = instance.RegisterValidation("yearmonth", validateYearMonth)
	})

	return instance
}

func validateYearMonth(fl validator.FieldLevel) bool {
	_, err := domain.ParseYearMonth(fl.Field().String())
	return err == nil
}

// Struct valida a struct e traduz os erros em mensagens legíveis
func Struct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, message(fe))
	}

	return fmt.Errorf("%s", strings.Join(messages, "; "))
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "yearmonth":
		return fmt.Sprintf("%s deve estar no formato yyyy-mm", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de: %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", fe.Field(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s deve ser menor ou igual a %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s falhou na regra %s", fe.Field(), fe.Tag())
	}
}
