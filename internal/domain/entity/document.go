package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentKind distingue los tres tipos de documento transaccional.
type DocumentKind string

const (
	DocumentPurchaseOrder DocumentKind = "purchase_order"
	DocumentSale          DocumentKind = "sales_reconciliation"
	DocumentBuyback       DocumentKind = "buyback"
)

// Document es el agregado de líneas más campos de cabecera (fecha, proveedor).
// Las ventas no llevan proveedor; compras y recompras sí.
type Document struct {
	ID           string // vacío en flujo "add"
	Kind         DocumentKind
	Date         time.Time
	VendorID     int64
	VendorName   string
	IsDeletable  bool
	IsModifiable bool
}

// RequiresVendor indica si el tipo de documento exige proveedor en cabecera.
func (d Document) RequiresVendor() bool {
	return d.Kind == DocumentPurchaseOrder || d.Kind == DocumentBuyback
}

// PurchaseOrder fila de listado de órdenes de compra.
type PurchaseOrder struct {
	ID          string
	Date        time.Time
	VendorID    int64
	VendorName  string
	TotalBooks  int64
	UniqueBooks int64
	TotalCost   decimal.Decimal
}

// SalesReconciliation fila de listado de conciliaciones de venta.
type SalesReconciliation struct {
	ID           string
	Date         time.Time
	TotalBooks   int64
	UniqueBooks  int64
	TotalRevenue decimal.Decimal
}

// Buyback fila de listado de recompras.
type Buyback struct {
	ID           string
	Date         time.Time
	VendorID     int64
	VendorName   string
	TotalBooks   int64
	UniqueBooks  int64
	TotalRevenue decimal.Decimal
}
