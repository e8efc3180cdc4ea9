package dto

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/invorya/libreria-client/internal/domain/entity"
)

// FormatBookForDropdown arma la clave de selección visible de un libro:
// título más ISBN, para desambiguar títulos repetidos en el catálogo.
func FormatBookForDropdown(title, isbn string) string {
	if isbn == "" {
		return title
	}
	return title + " (" + isbn + ")"
}

// ── API → interno ────────────────────────────────────────────────────────────

// ToBook convierte un libro del protocolo al tipo interno, aplanando autores y
// géneros a texto separado por comas.
func ToBook(b APIBook) entity.Book {
	return entity.Book{
		ID:               b.ID,
		Title:            b.Title,
		Author:           strings.Join(b.Authors, ", "),
		Genres:           strings.Join(b.Genres, ", "),
		ISBN13:           b.ISBN13,
		ISBN10:           b.ISBN10,
		Publisher:        b.Publisher,
		PublishedYear:    b.PublishedDate,
		PageCount:        b.PageCount,
		Width:            b.Width,
		Height:           b.Height,
		Thickness:        b.Thickness,
		RetailPrice:      b.RetailPrice,
		BestBuybackPrice: b.BestBuybackPrice,
		Stock:            b.Stock,
		LastMonthSales:   b.LastMonthSales,
		ShelfSpace:       b.ShelfSpace,
		DaysOfSupply:     b.DaysOfSupply,
	}
}

// ToVendor convierte un proveedor del protocolo al tipo interno.
func ToVendor(v APIVendor) entity.Vendor {
	return entity.Vendor{
		ID:                v.ID,
		Name:              v.Name,
		NumPurchaseOrders: v.NumPurchaseOrders,
		BuybackRate:       v.BuybackRate,
	}
}

// ToGenre convierte un género del protocolo al tipo interno.
func ToGenre(g APIGenre) entity.Genre {
	return entity.Genre{ID: g.ID, Name: g.Name, BookCount: g.BookCount}
}

// ToUser convierte un usuario del protocolo al tipo interno.
func ToUser(u APIUser) entity.User {
	return entity.User{ID: u.ID, UserName: u.UserName, IsAdmin: u.IsAdmin}
}

// ToPurchaseOrder convierte una cabecera de listado de orden de compra.
func ToPurchaseOrder(po APIPurchaseOrder) entity.PurchaseOrder {
	return entity.PurchaseOrder{
		ID:          strconv.FormatInt(po.ID, 10),
		Date:        parseDate(po.Date),
		VendorID:    po.VendorID,
		VendorName:  po.VendorName,
		TotalBooks:  po.NumBooks,
		UniqueBooks: po.NumUniqueBooks,
		TotalCost:   po.TotalCost,
	}
}

// ToSalesReconciliation convierte una cabecera de listado de venta.
func ToSalesReconciliation(sr APISalesReconciliation) entity.SalesReconciliation {
	return entity.SalesReconciliation{
		ID:           strconv.FormatInt(sr.ID, 10),
		Date:         parseDate(sr.Date),
		TotalBooks:   sr.NumBooks,
		UniqueBooks:  sr.NumUniqueBooks,
		TotalRevenue: sr.TotalRevenue,
	}
}

// ToBuyback convierte una cabecera de listado de recompra.
func ToBuyback(bb APIBuyback) entity.Buyback {
	return entity.Buyback{
		ID:           strconv.FormatInt(bb.ID, 10),
		Date:         parseDate(bb.Date),
		VendorID:     bb.VendorID,
		VendorName:   bb.VendorName,
		TotalBooks:   bb.NumBooks,
		UniqueBooks:  bb.NumUniqueBooks,
		TotalRevenue: bb.TotalRevenue,
	}
}

// ── Líneas persistidas → internas ────────────────────────────────────────────
// Las filas que llegan del backend ya tienen identidad persistida: IsNewRow
// queda en false y el id entero se conserva como texto.

// PurchaseRowsToLineItems convierte las líneas de un detalle de orden de compra.
func PurchaseRowsToLineItems(rows []APIPurchaseRow) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.LineItem{
			ID:        persistedID(r.ID),
			IsNewRow:  false,
			BookID:    r.Book,
			BookISBN:  r.BookISBN,
			BookTitle: FormatBookForDropdown(r.BookTitle, r.BookISBN),
			Quantity:  r.Quantity,
			Price:     r.UnitWholesalePrice,
		})
	}
	return items
}

// SaleRowsToLineItems convierte las líneas de un detalle de venta.
func SaleRowsToLineItems(rows []APISaleRow) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.LineItem{
			ID:        persistedID(r.ID),
			IsNewRow:  false,
			BookID:    r.Book,
			BookISBN:  r.BookISBN,
			BookTitle: FormatBookForDropdown(r.BookTitle, r.BookISBN),
			Quantity:  r.Quantity,
			Price:     r.UnitRetailPrice,
		})
	}
	return items
}

// BuybackRowsToLineItems convierte las líneas de un detalle de recompra.
func BuybackRowsToLineItems(rows []APIBuybackRow) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.LineItem{
			ID:        persistedID(r.ID),
			IsNewRow:  false,
			BookID:    r.Book,
			BookISBN:  r.BookISBN,
			BookTitle: FormatBookForDropdown(r.BookTitle, r.BookISBN),
			Quantity:  r.Quantity,
			Price:     r.UnitBuybackPrice,
		})
	}
	return items
}

// ── Internas → líneas de red ─────────────────────────────────────────────────

// LineItemsToPurchaseRows prepara las líneas para el envío de una orden de
// compra. El id solo viaja cuando la fila ya existe en el backend.
func LineItemsToPurchaseRows(items []entity.LineItem) []APIPurchaseRow {
	rows := make([]APIPurchaseRow, 0, len(items))
	for _, li := range items {
		rows = append(rows, APIPurchaseRow{
			ID:                 wireID(li),
			Book:               li.BookID,
			Quantity:           li.Quantity,
			UnitWholesalePrice: li.Price,
		})
	}
	return rows
}

// LineItemsToSaleRows prepara las líneas para el envío de una venta.
func LineItemsToSaleRows(items []entity.LineItem) []APISaleRow {
	rows := make([]APISaleRow, 0, len(items))
	for _, li := range items {
		rows = append(rows, APISaleRow{
			ID:              wireID(li),
			Book:            li.BookID,
			Quantity:        li.Quantity,
			UnitRetailPrice: li.Price,
		})
	}
	return rows
}

// LineItemsToBuybackRows prepara las líneas para el envío de una recompra.
func LineItemsToBuybackRows(items []entity.LineItem) []APIBuybackRow {
	rows := make([]APIBuybackRow, 0, len(items))
	for _, li := range items {
		rows = append(rows, APIBuybackRow{
			ID:               wireID(li),
			Book:             li.BookID,
			Quantity:         li.Quantity,
			UnitBuybackPrice: li.Price,
		})
	}
	return rows
}

// ── Filas importadas → internas ──────────────────────────────────────────────

// ImportedRowsToLineItems convierte las filas de una importación aceptada.
// Todas reciben identidad fresca de cliente e IsNewRow = true: todavía no
// fueron persistidas.
func ImportedRowsToLineItems(rows []ImportedRow) []entity.LineItem {
	items := make([]entity.LineItem, 0, len(rows))
	for _, r := range rows {
		items = append(items, entity.LineItem{
			ID:        uuid.NewString(),
			IsNewRow:  true,
			BookID:    r.BookID,
			BookISBN:  r.ISBN13,
			BookTitle: FormatBookForDropdown(r.BookTitle, r.ISBN13),
			Quantity:  r.Quantity,
			Price:     r.Price,
			CSVErrors: r.Errors,
		})
	}
	return items
}

func persistedID(id *int64) string {
	if id == nil {
		return ""
	}
	return strconv.FormatInt(*id, 10)
}

// wireID traduce la identidad al borde de red: entero para filas persistidas,
// omitido (nil) para filas nuevas con UUID de cliente.
func wireID(li entity.LineItem) *int64 {
	if li.IsNewRow {
		return nil
	}
	n, err := strconv.ParseInt(li.ID, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}

func parseDate(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
