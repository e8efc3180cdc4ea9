// Package dto define el contrato de red con el backend de inventario y las
// conversiones entre el vocabulario interno y el externo. Los nombres de campo
// JSON son contrato público y se preservan tal cual.
package dto

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// DateLayout formato de fecha del protocolo (fecha sin hora).
const DateLayout = "2006-01-02"

// ListResponse respuesta paginada estándar: filas más conteo total.
type ListResponse[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// ErrorsResponse cuerpo de rechazo 4xx: arreglo de errores en crudo.
type ErrorsResponse struct {
	Errors []string `json:"errors"`
}

// ── Filas de línea por tipo de documento ─────────────────────────────────────
// Cada tipo serializa su precio con una clave distinta; `id` se omite cuando la
// fila es nueva para que el backend distinga inserciones de actualizaciones.

// APIPurchaseRow línea de una orden de compra.
type APIPurchaseRow struct {
	ID                 *int64          `json:"id,omitempty"`
	Book               int64           `json:"book"`
	BookTitle          string          `json:"book_title,omitempty"`
	BookISBN           string          `json:"book_isbn,omitempty"`
	Quantity           int64           `json:"quantity"`
	UnitWholesalePrice decimal.Decimal `json:"unit_wholesale_price"`
}

// APISaleRow línea de una conciliación de venta.
type APISaleRow struct {
	ID              *int64          `json:"id,omitempty"`
	Book            int64           `json:"book"`
	BookTitle       string          `json:"book_title,omitempty"`
	BookISBN        string          `json:"book_isbn,omitempty"`
	Quantity        int64           `json:"quantity"`
	UnitRetailPrice decimal.Decimal `json:"unit_retail_price"`
}

// APIBuybackRow línea de una recompra.
type APIBuybackRow struct {
	ID               *int64          `json:"id,omitempty"`
	Book             int64           `json:"book"`
	BookTitle        string          `json:"book_title,omitempty"`
	BookISBN         string          `json:"book_isbn,omitempty"`
	Quantity         int64           `json:"quantity"`
	UnitBuybackPrice decimal.Decimal `json:"unit_buyback_price"`
}

// ── Documentos ───────────────────────────────────────────────────────────────

// APIPurchaseOrder cabecera más líneas de una orden de compra.
type APIPurchaseOrder struct {
	ID             int64            `json:"id"`
	Date           string           `json:"date"`
	VendorID       int64            `json:"vendor_id"`
	VendorName     string           `json:"vendor_name"`
	IsDeletable    bool             `json:"is_deletable"`
	Purchases      []APIPurchaseRow `json:"purchases"`
	NumBooks       int64            `json:"num_books"`
	NumUniqueBooks int64            `json:"num_unique_books"`
	TotalCost      decimal.Decimal  `json:"total_cost"`
}

// APISalesReconciliation cabecera más líneas de una conciliación de venta.
type APISalesReconciliation struct {
	ID             int64           `json:"id"`
	Date           string          `json:"date"`
	IsDeletable    bool            `json:"is_deletable"`
	Sales          []APISaleRow    `json:"sales"`
	NumBooks       int64           `json:"num_books"`
	NumUniqueBooks int64           `json:"num_unique_books"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// APIBuyback cabecera más líneas de una recompra.
type APIBuyback struct {
	ID             int64           `json:"id"`
	Date           string          `json:"date"`
	VendorID       int64           `json:"vendor_id"`
	VendorName     string          `json:"vendor_name"`
	IsDeletable    bool            `json:"is_deletable"`
	Buybacks       []APIBuybackRow `json:"buybacks"`
	NumBooks       int64           `json:"num_books"`
	NumUniqueBooks int64           `json:"num_unique_books"`
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
}

// ── Solicitudes de envío ─────────────────────────────────────────────────────

// AddPurchaseOrderRequest alta de orden de compra (reemplazo completo de líneas).
type AddPurchaseOrderRequest struct {
	ID        string           `json:"id,omitempty"`
	Date      string           `json:"date"`
	Vendor    int64            `json:"vendor"`
	Purchases []APIPurchaseRow `json:"purchases"`
}

// AddSalesReconciliationRequest alta de conciliación de venta.
type AddSalesReconciliationRequest struct {
	ID    string       `json:"id,omitempty"`
	Date  string       `json:"date"`
	Sales []APISaleRow `json:"sales"`
}

// AddBuybackRequest alta de recompra.
type AddBuybackRequest struct {
	ID       string          `json:"id,omitempty"`
	Date     string          `json:"date"`
	Vendor   int64           `json:"vendor"`
	Buybacks []APIBuybackRow `json:"buybacks"`
}

// ── Importación CSV ──────────────────────────────────────────────────────────
// El backend devuelve valores numéricos aun para celdas marcadas con
// not_a_number / not_an_int; FlexInt y FlexDecimal toleran basura y degradan a
// cero en lugar de abortar la decodificación de toda la respuesta.

// FlexInt entero tolerante a celdas malformadas.
type FlexInt int64

// UnmarshalJSON acepta número o cadena; lo no convertible queda en 0.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = FlexInt(n)
	return nil
}

// FlexDecimal decimal tolerante a celdas malformadas.
type FlexDecimal decimal.Decimal

// UnmarshalJSON acepta número o cadena; lo no convertible queda en 0.
func (f *FlexDecimal) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		*f = FlexDecimal(decimal.Zero)
		return nil
	}
	*f = FlexDecimal(d)
	return nil
}

// Decimal devuelve el valor como decimal.Decimal.
func (f FlexDecimal) Decimal() decimal.Decimal { return decimal.Decimal(f) }

// MarshalJSON serializa el decimal subyacente.
func (f FlexDecimal) MarshalJSON() ([]byte, error) { return json.Marshal(decimal.Decimal(f)) }

// APIPurchaseCSVRow fila importada para compras: fila normal más isbn_13 y errores.
type APIPurchaseCSVRow struct {
	Book               int64             `json:"book"`
	BookTitle          string            `json:"book_title"`
	ISBN13             string            `json:"isbn_13"`
	Quantity           FlexInt           `json:"quantity"`
	UnitWholesalePrice FlexDecimal       `json:"unit_wholesale_price"`
	Errors             map[string]string `json:"errors,omitempty"`
}

// APISaleCSVRow fila importada para ventas.
type APISaleCSVRow struct {
	Book            int64             `json:"book"`
	BookTitle       string            `json:"book_title"`
	ISBN13          string            `json:"isbn_13"`
	Quantity        FlexInt           `json:"quantity"`
	UnitRetailPrice FlexDecimal       `json:"unit_retail_price"`
	Errors          map[string]string `json:"errors,omitempty"`
}

// APIBuybackCSVRow fila importada para recompras.
type APIBuybackCSVRow struct {
	Book             int64             `json:"book"`
	BookTitle        string            `json:"book_title"`
	ISBN13           string            `json:"isbn_13"`
	Quantity         FlexInt           `json:"quantity"`
	UnitBuybackPrice FlexDecimal       `json:"unit_buyback_price"`
	Errors           map[string]string `json:"errors,omitempty"`
}

// PurchaseCSVImportResponse respuesta 200 de POST purchase_orders/csv/import.
type PurchaseCSVImportResponse struct {
	Purchases []APIPurchaseCSVRow `json:"purchases"`
	Errors    []string            `json:"errors,omitempty"`
}

// SaleCSVImportResponse respuesta 200 de POST sales/sales_reconciliation/csv/import.
type SaleCSVImportResponse struct {
	Sales  []APISaleCSVRow `json:"sales"`
	Errors []string        `json:"errors,omitempty"`
}

// BuybackCSVImportResponse respuesta 200 de POST buybacks/csv/import.
type BuybackCSVImportResponse struct {
	Buybacks []APIBuybackCSVRow `json:"buybacks"`
	Errors   []string           `json:"errors,omitempty"`
}

// ImportedRow fila importada ya normalizada (independiente del tipo de documento).
type ImportedRow struct {
	BookID    int64
	BookTitle string
	ISBN13    string
	Quantity  int64
	Price     decimal.Decimal
	Errors    map[string]string
}

// CSVImportResult resultado normalizado de una importación aceptada (2xx).
// Errors trae los avisos no bloqueantes (columnas extra ignoradas).
type CSVImportResult struct {
	Rows   []ImportedRow
	Errors []string
}

// ── Catálogo y entidades de listado ──────────────────────────────────────────

// APIBook libro del catálogo tal como lo publica el backend.
type APIBook struct {
	ID               int64           `json:"id"`
	Authors          []string        `json:"authors"`
	Genres           []string        `json:"genres"`
	Title            string          `json:"title"`
	ISBN13           string          `json:"isbn_13"`
	ISBN10           string          `json:"isbn_10"`
	Publisher        string          `json:"publisher"`
	PublishedDate    int             `json:"publishedDate"`
	PageCount        int             `json:"pageCount"`
	Width            decimal.Decimal `json:"width"`
	Height           decimal.Decimal `json:"height"`
	Thickness        decimal.Decimal `json:"thickness"`
	RetailPrice      decimal.Decimal `json:"retail_price"`
	BestBuybackPrice decimal.Decimal `json:"best_buyback_price"`
	Stock            int64           `json:"stock"`
	LastMonthSales   int64           `json:"last_month_sales"`
	ShelfSpace       decimal.Decimal `json:"shelf_space"`
	DaysOfSupply     decimal.Decimal `json:"days_of_supply"`
}

// APIVendor proveedor.
type APIVendor struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	NumPurchaseOrders int64           `json:"num_purchase_orders"`
	BuybackRate       decimal.Decimal `json:"buyback_rate"`
}

// APIGenre género.
type APIGenre struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	BookCount int64  `json:"book_cnt"`
}

// APIUser usuario.
type APIUser struct {
	ID       int64  `json:"id"`
	UserName string `json:"username"`
	IsAdmin  bool   `json:"is_staff"`
}
