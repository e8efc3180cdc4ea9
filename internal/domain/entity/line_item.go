package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem representa una fila transaccional de un documento (libro + cantidad + precio unitario).
// ID es un UUID generado en el cliente mientras la fila no exista en el backend;
// al convertir a formato de red las filas persistidas llevan el entero asignado por el servidor.
type LineItem struct {
	ID        string
	IsNewRow  bool // true hasta que el backend reconozca la identidad de la fila
	BookID    int64
	BookISBN  string
	BookTitle string
	Quantity  int64
	Price     decimal.Decimal
	CSVErrors map[string]string // columna -> código de error; solo en filas importadas
}

// NewLineItem devuelve la fila plantilla para "agregar libro": cantidad 1, precio 0.
func NewLineItem() LineItem {
	return LineItem{
		ID:       uuid.NewString(),
		IsNewRow: true,
		Quantity: 1,
		Price:    decimal.Zero,
	}
}

// Subtotal devuelve precio × cantidad.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(li.Quantity))
}

// HasCSVErrors indica si la fila llegó anotada por la importación CSV.
func (li LineItem) HasCSVErrors() bool {
	return len(li.CSVErrors) > 0
}
