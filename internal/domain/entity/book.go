package entity

import "github.com/shopspring/decimal"

// Book entrada del catálogo usada en listados y en la selección de filas.
// Author y Genres llegan del backend como arreglos y se aplanan a texto separado por comas.
type Book struct {
	ID               int64
	Title            string
	Author           string
	Genres           string
	ISBN13           string
	ISBN10           string
	Publisher        string
	PublishedYear    int
	PageCount        int
	Width            decimal.Decimal
	Height           decimal.Decimal
	Thickness        decimal.Decimal
	RetailPrice      decimal.Decimal
	BestBuybackPrice decimal.Decimal
	Stock            int64
	LastMonthSales   int64
	ShelfSpace       decimal.Decimal
	DaysOfSupply     decimal.Decimal
}

// Vendor proveedor de compras/recompras.
type Vendor struct {
	ID                int64
	Name              string
	NumPurchaseOrders int64
	BuybackRate       decimal.Decimal
}

// Genre género del catálogo.
type Genre struct {
	ID        int64
	Name      string
	BookCount int64
}

// User usuario del sistema (solo listado).
type User struct {
	ID       int64
	UserName string
	IsAdmin  bool
}
