// Package lineitem implementa el motor de agregación de líneas: la colección
// ordenada de filas de un documento y su total monetario, recalculado de forma
// síncrona en cada mutación. El total nunca se consulta al servidor durante la
// edición; es siempre derivado de las filas visibles.
package lineitem

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// Grid posee la colección ordenada de líneas de un documento.
// Modelo monohilo: una mutación a la vez, aplicada de forma síncrona.
type Grid struct {
	rows  []entity.LineItem
	total decimal.Decimal
}

// New crea una grilla vacía con total cero.
func New() *Grid {
	return &Grid{total: decimal.Zero}
}

// NewFromRows crea una grilla con las filas dadas (flujo "detail": fetch y conversión).
func NewFromRows(rows []entity.LineItem) *Grid {
	g := &Grid{rows: append([]entity.LineItem(nil), rows...)}
	g.recompute()
	return g
}

// AddRow agrega una fila nueva basada en la plantilla, con identidad fresca
// generada en el cliente e IsNewRow = true. Devuelve la fila agregada.
// No hay límite de filas más allá de la memoria.
func (g *Grid) AddRow(template entity.LineItem) entity.LineItem {
	template.ID = uuid.NewString()
	template.IsNewRow = true
	g.rows = append(g.rows, template)
	g.recompute()
	return template
}

// SetQuantity fija la cantidad de la fila indicada y recalcula el total.
func (g *Grid) SetQuantity(rowID string, quantity int64) error {
	row := g.find(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	row.Quantity = quantity
	g.recompute()
	return nil
}

// SetPrice fija el precio unitario de la fila indicada y recalcula el total.
func (g *Grid) SetPrice(rowID string, price decimal.Decimal) error {
	row := g.find(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	row.Price = price
	g.recompute()
	return nil
}

// SetBook escribe la selección de libro y su precio resuelto como una sola
// unidad lógica, y recién entonces recalcula el total. El precio debe venir ya
// resuelto por el colaborador de precios: escribir libro y precio por separado
// dejaría el total reflejando transitoriamente el precio del libro anterior.
func (g *Grid) SetBook(rowID string, bookID int64, isbn, title string, price decimal.Decimal) error {
	row := g.find(rowID)
	if row == nil {
		return domain.ErrRowNotFound
	}
	row.BookID = bookID
	row.BookISBN = isbn
	row.BookTitle = title
	row.Price = price
	g.recompute()
	return nil
}

// Delete elimina la fila por id, recalcula el total desde las filas restantes
// y devuelve la colección posterior al borrado. Quien borra debe usar esta
// colección, no la previa, para cualquier estado derivado: recalcular sobre la
// colección vieja duplica u omite la fila borrada.
func (g *Grid) Delete(rowID string) []entity.LineItem {
	for i := range g.rows {
		if g.rows[i].ID == rowID {
			g.rows = append(g.rows[:i], g.rows[i+1:]...)
			break
		}
	}
	g.recompute()
	return g.Rows()
}

// ReplaceAll descarta la colección y el total actuales e instala las filas
// nuevas (importación masiva). El reemplazo es atómico: no hay fusión parcial.
func (g *Grid) ReplaceAll(rows []entity.LineItem) {
	g.rows = append([]entity.LineItem(nil), rows...)
	g.recompute()
}

// Rows devuelve una copia de la colección actual.
func (g *Grid) Rows() []entity.LineItem {
	return append([]entity.LineItem(nil), g.rows...)
}

// Len devuelve la cantidad de filas.
func (g *Grid) Len() int {
	return len(g.rows)
}

// Total devuelve el total vigente del documento: Σ precio × cantidad.
func (g *Grid) Total() decimal.Decimal {
	return g.total
}

// HasImportErrors indica si alguna fila vigente lleva anotaciones de la
// importación CSV sin resolver.
func (g *Grid) HasImportErrors() bool {
	for i := range g.rows {
		if g.rows[i].HasCSVErrors() {
			return true
		}
	}
	return false
}

func (g *Grid) find(rowID string) *entity.LineItem {
	for i := range g.rows {
		if g.rows[i].ID == rowID {
			return &g.rows[i]
		}
	}
	return nil
}

func (g *Grid) recompute() {
	total := decimal.Zero
	for i := range g.rows {
		total = total.Add(g.rows[i].Subtotal())
	}
	g.total = total
}
