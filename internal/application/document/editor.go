// Package document implementa el caso de uso de edición de documentos
// transaccionales: cabecera (fecha, proveedor), grilla de líneas, selección de
// libros desde el catálogo y envío al backend.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/domain/lineitem"
	"github.com/invorya/libreria-client/pkg/logger"
)

// Editor orquesta la edición de un documento: flujo "add" (documento nuevo,
// editable desde el inicio) o flujo "detail" (documento cargado del backend,
// de solo lectura hasta habilitar la edición).
type Editor struct {
	doc      entity.Document
	grid     *lineitem.Grid
	catalog  map[string]entity.Book // clave: "título (isbn)"
	api      ports.DocumentAPI
	books    ports.Catalog
	resolver ports.PriceResolver
	log      *logger.Logger
}

// NewEditor crea un editor en flujo "add" para el tipo de documento dado.
func NewEditor(kind entity.DocumentKind, api ports.DocumentAPI, books ports.Catalog, resolver ports.PriceResolver, log *logger.Logger) *Editor {
	if log == nil {
		log = logger.Nop()
	}
	return &Editor{
		doc:      entity.Document{Kind: kind, IsModifiable: true, IsDeletable: true},
		grid:     lineitem.New(),
		catalog:  map[string]entity.Book{},
		api:      api,
		books:    books,
		resolver: resolver,
		log:      log,
	}
}

// Load pasa el editor a flujo "detail": trae el documento y sus líneas del
// backend. El documento cargado arranca en solo lectura.
func (e *Editor) Load(ctx context.Context, id string) error {
	doc, items, err := e.api.FetchDocument(ctx, id)
	if err != nil {
		return err
	}
	doc.Kind = e.doc.Kind
	doc.IsModifiable = false
	e.doc = doc
	e.grid = lineitem.NewFromRows(items)
	return nil
}

// LoadCatalog carga el catálogo de libros indexado por la clave de selección
// "título (isbn)". En recompras el catálogo se restringe a los libros vendidos
// por el proveedor del documento, por lo que debe recargarse al cambiar de
// proveedor.
func (e *Editor) LoadCatalog(ctx context.Context) error {
	var vendorID *int64
	if e.doc.Kind == entity.DocumentBuyback && e.doc.VendorID != 0 {
		vendorID = &e.doc.VendorID
	}
	books, err := e.books.AllBooks(ctx, vendorID)
	if err != nil {
		return err
	}
	catalog := make(map[string]entity.Book, len(books))
	for _, b := range books {
		catalog[dto.FormatBookForDropdown(b.Title, b.ISBN13)] = b
	}
	e.catalog = catalog
	return nil
}

// BookTitles devuelve las claves de selección disponibles del catálogo cargado.
func (e *Editor) BookTitles() []string {
	titles := make([]string, 0, len(e.catalog))
	for k := range e.catalog {
		titles = append(titles, k)
	}
	return titles
}

// Document devuelve la cabecera vigente.
func (e *Editor) Document() entity.Document {
	return e.doc
}

// Grid expone la grilla de líneas del documento.
func (e *Editor) Grid() *lineitem.Grid {
	return e.grid
}

// SetDate fija la fecha de cabecera.
func (e *Editor) SetDate(date time.Time) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	e.doc.Date = date
	return nil
}

// SetVendor fija el proveedor de cabecera. En recompras el cambio invalida el
// catálogo cargado; quien llama debe recargarlo con LoadCatalog.
func (e *Editor) SetVendor(vendorID int64, name string) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	e.doc.VendorID = vendorID
	e.doc.VendorName = name
	return nil
}

// SetModifiable habilita o deshabilita la edición del documento cargado.
func (e *Editor) SetModifiable(modifiable bool) {
	e.doc.IsModifiable = modifiable
}

// AddRow agrega una fila en blanco (cantidad 1, precio 0) y la devuelve.
func (e *Editor) AddRow() (entity.LineItem, error) {
	if !e.doc.IsModifiable {
		return entity.LineItem{}, domain.ErrNotModifiable
	}
	return e.grid.AddRow(entity.NewLineItem()), nil
}

// SelectBook resuelve la selección de libro de una fila: busca el libro por su
// clave de selección, resuelve el precio inicial según el tipo de documento y
// escribe libro y precio como una sola unidad. Un fallo del resolutor degrada
// a precio 0 en vez de bloquear la fila.
func (e *Editor) SelectBook(ctx context.Context, rowID, displayKey string) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	book, ok := e.catalog[displayKey]
	if !ok {
		return fmt.Errorf("%w: libro %q no está en el catálogo cargado", domain.ErrNotFound, displayKey)
	}
	price, err := e.resolver.ResolvePrice(ctx, book)
	if err != nil {
		e.log.Warn().Err(err).Str("row_id", rowID).Msg("fallo al resolver precio, se usa 0")
		price = decimal.Zero
	}
	return e.grid.SetBook(rowID, book.ID, book.ISBN13, book.Title, price)
}

// SetQuantity fija la cantidad de una fila.
func (e *Editor) SetQuantity(rowID string, quantity int64) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	return e.grid.SetQuantity(rowID, quantity)
}

// SetPrice fija el precio unitario de una fila.
func (e *Editor) SetPrice(rowID string, price decimal.Decimal) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	return e.grid.SetPrice(rowID, price)
}

// DeleteRow elimina una fila y devuelve la colección posterior al borrado.
func (e *Editor) DeleteRow(rowID string) ([]entity.LineItem, error) {
	if !e.doc.IsModifiable {
		return nil, domain.ErrNotModifiable
	}
	return e.grid.Delete(rowID), nil
}

// Validate verifica el documento antes del envío: fecha presente, proveedor
// cuando el tipo lo exige, y en cada fila libro seleccionado, cantidad distinta
// de cero y precio no negativo.
func (e *Editor) Validate() error {
	if e.doc.Date.IsZero() {
		return fmt.Errorf("%w: la fecha es obligatoria", domain.ErrInvalidInput)
	}
	if e.doc.RequiresVendor() && e.doc.VendorID == 0 {
		return fmt.Errorf("%w: el proveedor es obligatorio", domain.ErrInvalidInput)
	}
	if e.grid.Len() == 0 {
		return fmt.Errorf("%w: el documento no tiene líneas", domain.ErrInvalidInput)
	}
	for _, row := range e.grid.Rows() {
		if row.BookTitle == "" {
			return fmt.Errorf("%w: todas las líneas requieren libro", domain.ErrInvalidInput)
		}
		if row.Quantity == 0 {
			return fmt.Errorf("%w: la cantidad no puede ser cero (%s)", domain.ErrInvalidInput, row.BookTitle)
		}
		if row.Price.IsNegative() {
			return fmt.Errorf("%w: el precio no puede ser negativo (%s)", domain.ErrInvalidInput, row.BookTitle)
		}
	}
	return nil
}

// Submit valida y envía el documento: alta cuando no tiene id, modificación
// (reemplazo completo de líneas) cuando sí. Un rechazo del backend llega como
// *ports.SubmitRejectedError con los mensajes tal cual; el estado editable se
// conserva para corregir y reenviar.
func (e *Editor) Submit(ctx context.Context) error {
	if !e.doc.IsModifiable {
		return domain.ErrNotModifiable
	}
	if err := e.Validate(); err != nil {
		return err
	}
	items := e.grid.Rows()
	if e.doc.ID == "" {
		return e.api.AddDocument(ctx, e.doc, items)
	}
	return e.api.ModifyDocument(ctx, e.doc, items)
}

// Delete borra el documento cargado en el backend.
func (e *Editor) Delete(ctx context.Context) error {
	if e.doc.ID == "" {
		return fmt.Errorf("%w: el documento aún no está persistido", domain.ErrInvalidInput)
	}
	if !e.doc.IsDeletable {
		return fmt.Errorf("%w: el documento no es eliminable", domain.ErrNotModifiable)
	}
	return e.api.DeleteDocument(ctx, e.doc.ID)
}
