// Package ports define los puertos hacia los colaboradores remotos. Las
// implementaciones viven en internal/infrastructure.
package ports

import (
	"context"
	"io"

	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// PriceResolver resuelve el precio unitario a precargar cuando se selecciona
// un libro en una fila. La resolución nunca bloquea la carga de datos: ante un
// fallo de precio la implementación degrada a 0 en vez de propagar.
type PriceResolver interface {
	ResolvePrice(ctx context.Context, book entity.Book) (decimal.Decimal, error)
}

// BuybackPriceAPI consulta remota de mejor precio de recompra, parametrizada
// por libro y proveedor (el precio de recompra depende del proveedor).
type BuybackPriceAPI interface {
	BestBuybackPrice(ctx context.Context, bookID, vendorID int64) (decimal.Decimal, error)
}

// CSVImporter envía el archivo tabular al backend y devuelve el resultado
// normalizado. Un rechazo estructural llega como *ImportRejectedError.
type CSVImporter interface {
	ImportCSV(ctx context.Context, file io.Reader, filename, vendorID string) (*dto.CSVImportResult, error)
}

// ImportRejectedError rechazo 4xx de la importación: el documento completo se
// descarta y cada mensaje se clasifica para notificar.
type ImportRejectedError struct {
	Errors []string
}

func (e *ImportRejectedError) Error() string {
	return "importación CSV rechazada por el servidor"
}

// Unwrap habilita errors.Is contra el centinela de dominio.
func (e *ImportRejectedError) Unwrap() error { return domain.ErrImportRejected }

// DocumentAPI operaciones de documento contra el backend: detalle, alta,
// modificación (reemplazo completo de líneas) y borrado.
type DocumentAPI interface {
	FetchDocument(ctx context.Context, id string) (entity.Document, []entity.LineItem, error)
	AddDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error
	ModifyDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error
	DeleteDocument(ctx context.Context, id string) error
}

// SubmitRejectedError rechazo de un envío de documento: los mensajes del
// backend se muestran tal cual, sin reintento automático.
type SubmitRejectedError struct {
	Errors []string
}

func (e *SubmitRejectedError) Error() string {
	return "el servidor rechazó el envío del documento"
}

// Unwrap habilita errors.Is contra el centinela de dominio.
func (e *SubmitRejectedError) Unwrap() error { return domain.ErrSubmitRejected }

// Catalog acceso al catálogo completo para la selección de libros en filas.
// vendorID restringe el catálogo a los libros vendidos por el proveedor
// (selección en recompras); nil devuelve el catálogo entero.
type Catalog interface {
	AllBooks(ctx context.Context, vendorID *int64) ([]entity.Book, error)
}
