// Package csvimport clasifica los dos niveles de errores que devuelve el
// backend al importar un archivo tabular: errores de documento (rechazan la
// importación completa) y errores de fila (anotan filas sin bloquear).
// La clasificación es por inspección de subcadenas contra un vocabulario fijo;
// un mensaje no reconocido cae en la categoría "Unknown Error" en lugar de
// fallar la clasificación.
package csvimport

import (
	"strconv"
	"strings"
)

// Severity categoría visual del error de fila.
type Severity string

const (
	SeverityDanger  Severity = "danger"  // problema con el libro (ISBN, catálogo, stock)
	SeverityWarning Severity = "warning" // problema de formato (negativo, no numérico)
	SeverityInfo    Severity = "info"    // aviso (valor vacío, libro no vendido por el proveedor)
)

// Códigos de error por fila que emite el backend.
const (
	CodeInvalidISBN          = "invalid_isbn"
	CodeNotInDB              = "not_in_db"
	CodeInsufficientStock    = "insufficient_stock" // llega como insufficient_stock_<n>
	CodeNotAnInt             = "not_an_int"
	CodeNotANumber           = "not_a_number"
	CodeNegative             = "negative"
	CodeEmptyValue           = "empty_value"
	CodeBookNotSoldByVendor  = "book_not_sold_by_vendor"
	duplicateHeadersKeyword  = "duplicate_valid_headers"
	emptyCSVKeyword          = "empty_csv"
	malformedRowKeyword      = "Expected"
)

// BatchError error de nivel documento ya clasificado para mostrar.
type BatchError struct {
	Message string // texto final para la notificación bloqueante
}

// RowTag anotación clasificada de una celda importada.
type RowTag struct {
	Field    string
	Severity Severity
	Label    string
	Stock    int64 // solo con stock insuficiente: existencia disponible extraída del código
}

// ClassifyBatchError traduce un mensaje de rechazo del backend a su causa
// conocida. El orden de inspección replica la precedencia del vocabulario:
// columnas faltantes, cabeceras duplicadas, archivo vacío, fila malformada.
func ClassifyBatchError(msg string) BatchError {
	switch {
	case strings.Contains(msg, "isbn"):
		return BatchError{Message: "ISBN 13 Column Missing from the CSV"}
	case strings.Contains(msg, "quantity"):
		return BatchError{Message: "Quantity Column Missing from the CSV"}
	case strings.Contains(msg, "unit_buyback_price"):
		return BatchError{Message: "Unit Buyback Price Column Missing from the CSV"}
	case strings.Contains(msg, "unit_retail_price"):
		return BatchError{Message: "Unit Retail Price Column Missing from the CSV"}
	case strings.Contains(msg, "unit_wholesale_price"):
		return BatchError{Message: "Unit Wholesale Price Column Missing from the CSV"}
	case strings.Contains(msg, duplicateHeadersKeyword):
		return BatchError{Message: "Duplicate headers are present in the CSV"}
	case strings.Contains(msg, emptyCSVKeyword):
		return BatchError{Message: "CSV file is empty"}
	case strings.Contains(msg, malformedRowKeyword):
		// Mensaje tipo "Expected N fields in line M, saw K": el número de línea
		// es el sexto token.
		return BatchError{Message: "Row " + malformedRowLine(msg) + " is invalid"}
	default:
		return BatchError{Message: "Unknown Error"}
	}
}

func malformedRowLine(msg string) string {
	parts := strings.Split(msg, " ")
	if len(parts) > 5 {
		return strings.TrimRight(parts[5], ",")
	}
	return "?"
}

// ClassifyRowError traduce el código de error de una celda a su etiqueta.
func ClassifyRowError(field, code string) RowTag {
	switch {
	case code == CodeInvalidISBN:
		return RowTag{Field: field, Severity: SeverityDanger, Label: "Invalid ISBN"}
	case code == CodeNotInDB:
		return RowTag{Field: field, Severity: SeverityDanger, Label: "Book Not in System"}
	case strings.Contains(code, CodeInsufficientStock):
		stock := extractStock(code)
		return RowTag{
			Field:    field,
			Severity: SeverityDanger,
			Label:    "Book Stock is only " + strconv.FormatInt(stock, 10),
			Stock:    stock,
		}
	case code == CodeNotAnInt:
		return RowTag{Field: field, Severity: SeverityWarning, Label: field + " must be an integer"}
	case code == CodeNotANumber:
		return RowTag{Field: field, Severity: SeverityWarning, Label: field + " must be an number"}
	case code == CodeNegative:
		return RowTag{Field: field, Severity: SeverityWarning, Label: field + " can't be negative"}
	case code == CodeEmptyValue:
		return RowTag{Field: field, Severity: SeverityInfo, Label: field + " is empty"}
	case code == CodeBookNotSoldByVendor:
		return RowTag{Field: field, Severity: SeverityInfo, Label: "Book Not Sold by Vendor"}
	default:
		return RowTag{Field: field, Severity: SeverityWarning, Label: "Unknown Error"}
	}
}

// extractStock toma el valor numérico de un código insufficient_stock_<n>.
func extractStock(code string) int64 {
	parts := strings.Split(code, "_")
	if len(parts) < 3 {
		return 0
	}
	n, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ClassifyRowErrors clasifica el mapa columna→código de una fila importada.
func ClassifyRowErrors(errors map[string]string) []RowTag {
	tags := make([]RowTag, 0, len(errors))
	for field, code := range errors {
		tags = append(tags, ClassifyRowError(field, code))
	}
	return tags
}

// ExtraColumnWarning arma el aviso no bloqueante por columna ignorada.
func ExtraColumnWarning(column string) string {
	return column + " is an extra column and was not used"
}
