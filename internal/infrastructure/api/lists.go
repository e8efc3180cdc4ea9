package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/listquery"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// Rutas de listado del backend.
const (
	pathBooks          = "books/"
	pathPurchaseOrders = "purchase_orders"
	pathSales          = "sales/sales_reconciliation"
	pathBuybacks       = "buybacks"
	pathVendors        = "vendors"
	pathGenres         = "genres"
	pathUsers          = "auth/users"
)

// Verificación en tiempo de compilación de los adaptadores de listado.
var (
	_ listquery.Querier[entity.Book]                = (*BookList)(nil)
	_ listquery.Querier[entity.PurchaseOrder]       = (*PurchaseOrderList)(nil)
	_ listquery.Querier[entity.SalesReconciliation] = (*SalesReconciliationList)(nil)
	_ listquery.Querier[entity.Buyback]             = (*BuybackList)(nil)
	_ listquery.Querier[entity.Vendor]              = (*VendorList)(nil)
	_ listquery.Querier[entity.Genre]               = (*GenreList)(nil)
	_ listquery.Querier[entity.User]                = (*UserList)(nil)
)

// listParams traduce la consulta al protocolo de query string del backend.
// Page ya llega en base 1.
func listParams(q listquery.Query) url.Values {
	params := url.Values{}
	if q.NoPagination {
		params.Set("no_pagination", "true")
	} else {
		params.Set("page", strconv.Itoa(q.Page))
		params.Set("page_size", strconv.Itoa(q.PageSize))
	}
	if q.Ordering != "" {
		params.Set("ordering", q.Ordering)
	}
	if q.Search != "" {
		params.Set("search", q.Search)
		if q.SearchScope != "" {
			params.Set(q.SearchScope, "true")
		}
	}
	for k, v := range q.Filters {
		if v != "" {
			params.Set(k, v)
		}
	}
	return params
}

// list ejecuta la consulta y convierte filas y conteo con el conversor dado.
func list[A, T any](ctx context.Context, c *Client, path string, q listquery.Query, convert func(A) T) (listquery.Result[T], error) {
	var resp dto.ListResponse[A]
	if err := c.get(ctx, path, listParams(q), &resp); err != nil {
		return listquery.Result[T]{}, err
	}
	rows := make([]T, 0, len(resp.Results))
	for _, r := range resp.Results {
		rows = append(rows, convert(r))
	}
	return listquery.Result[T]{Rows: rows, Count: resp.Count}, nil
}

// BookList listado del catálogo.
type BookList struct{ c *Client }

func NewBookList(c *Client) *BookList { return &BookList{c: c} }

func (l *BookList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.Book], error) {
	return list(ctx, l.c, pathBooks, q, dto.ToBook)
}

// PurchaseOrderList listado de órdenes de compra.
type PurchaseOrderList struct{ c *Client }

func NewPurchaseOrderList(c *Client) *PurchaseOrderList { return &PurchaseOrderList{c: c} }

func (l *PurchaseOrderList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.PurchaseOrder], error) {
	return list(ctx, l.c, pathPurchaseOrders, q, dto.ToPurchaseOrder)
}

// SalesReconciliationList listado de conciliaciones de venta.
type SalesReconciliationList struct{ c *Client }

func NewSalesReconciliationList(c *Client) *SalesReconciliationList {
	return &SalesReconciliationList{c: c}
}

func (l *SalesReconciliationList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.SalesReconciliation], error) {
	return list(ctx, l.c, pathSales, q, dto.ToSalesReconciliation)
}

// BuybackList listado de recompras.
type BuybackList struct{ c *Client }

func NewBuybackList(c *Client) *BuybackList { return &BuybackList{c: c} }

func (l *BuybackList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.Buyback], error) {
	return list(ctx, l.c, pathBuybacks, q, dto.ToBuyback)
}

// VendorList listado de proveedores.
type VendorList struct{ c *Client }

func NewVendorList(c *Client) *VendorList { return &VendorList{c: c} }

func (l *VendorList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.Vendor], error) {
	return list(ctx, l.c, pathVendors, q, dto.ToVendor)
}

// GenreList listado de géneros.
type GenreList struct{ c *Client }

func NewGenreList(c *Client) *GenreList { return &GenreList{c: c} }

func (l *GenreList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.Genre], error) {
	return list(ctx, l.c, pathGenres, q, dto.ToGenre)
}

// UserList listado de usuarios.
type UserList struct{ c *Client }

func NewUserList(c *Client) *UserList { return &UserList{c: c} }

func (l *UserList) List(ctx context.Context, q listquery.Query) (listquery.Result[entity.User], error) {
	return list(ctx, l.c, pathUsers, q, dto.ToUser)
}
