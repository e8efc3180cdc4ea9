package dto

import "github.com/invorya/libreria-client/internal/application/listquery"

// Tablas de traducción campo interno → campo del protocolo de consulta, por
// entidad. Cada función devuelve un mapa nuevo: la configuración se inyecta en
// el controlador y ninguna tabla vive como global mutable.

// BookSortFields campos ordenables del listado de libros.
func BookSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"title":            "title",
		"author":           "author",
		"genres":           "genre",
		"isbn13":           "isbn_13",
		"isbn10":           "isbn_10",
		"publisher":        "publisher",
		"retailPrice":      "retail_price",
		"stock":            "stock",
		"bestBuybackPrice": "best_buyback_price",
		"lastMonthSales":   "last_month_sales",
		"shelfSpace":       "shelf_space",
		"daysOfSupply":     "days_of_supply",
	}
}

// BookSearchScopes precedencia de búsqueda de texto libre en libros: cuando
// hay varias cajas con texto gana la primera de esta lista.
func BookSearchScopes() []listquery.SearchScope {
	return []listquery.SearchScope{
		{Field: "title", Param: "title_only"},
		{Field: "publisher", Param: "publisher_only"},
		{Field: "author", Param: "author_only"},
		{Field: "isbn13", Param: "isbn_only"},
	}
}

// PurchaseOrderSortFields campos ordenables del listado de órdenes de compra.
func PurchaseOrderSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"vendorName":  "vendor_name",
		"vendorId":    "vendor",
		"uniqueBooks": "num_unique_books",
		"totalBooks":  "num_books",
		"totalCost":   "total_cost",
		"date":        "date",
	}
}

// SalesReconciliationSortFields campos ordenables del listado de ventas.
func SalesReconciliationSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"uniqueBooks":  "num_unique_books",
		"totalBooks":   "num_books",
		"totalRevenue": "total_revenue",
		"date":         "date",
	}
}

// BuybackSortFields campos ordenables del listado de recompras.
func BuybackSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"vendorName":   "vendor_name",
		"vendorId":     "vendor",
		"uniqueBooks":  "num_unique_books",
		"totalBooks":   "num_books",
		"totalRevenue": "total_revenue",
		"date":         "date",
	}
}

// VendorSortFields campos ordenables del listado de proveedores.
func VendorSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"name":        "name",
		"numPO":       "num_purchase_orders",
		"buybackRate": "null_considered_buyback_rate",
	}
}

// GenreSortFields campos ordenables del listado de géneros.
func GenreSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"name":      "name",
		"bookCount": "book_cnt",
	}
}

// UserSortFields campos ordenables del listado de usuarios.
func UserSortFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"userName": "username",
		"isAdmin":  "is_staff",
	}
}
