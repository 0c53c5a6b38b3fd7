package analyzing

import (
	"errors"
	"fmt"
)

// Erros do motor de análises
var (
	ErrProductNotFound = errors.New("produto não encontrado")
	ErrInvalidFilters  = errors.New("filtros inválidos")
	ErrInvalidQuery    = errors.New("consulta inválida")
)

// Códigos de erro
const (
	CodeProductNotFound = "PRODUCT_NOT_FOUND"
	CodeInvalidFilters  = "INVALID_FILTERS"
	CodeInvalidQuery    = "INVALID_QUERY"
)

// AnalyticsError é um erro com contexto adicional para as análises
type AnalyticsError struct {
	Err       error  // Erro base
	Code      string // Código de erro
	ProductID string // Produto envolvido (quando aplicável)
	Details   string // Detalhes adicionais
}

func (e *AnalyticsError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

// NewAnalyticsError cria um novo AnalyticsError
func NewAnalyticsError(err error, code string, details string) *AnalyticsError {
	return &AnalyticsError{
		Err:     err,
		Code:    code,
		Details: details,
	}
}

// NewProductNotFoundError cria o erro de produto sem registros
func NewProductNotFoundError(productID string) *AnalyticsError {
	return &AnalyticsError{
		Err:       ErrProductNotFound,
		Code:      CodeProductNotFound,
		ProductID: productID,
		Details:   fmt.Sprintf("nenhum registro para o produto %s", productID),
	}
}
