package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

var (
	_ ports.Catalog         = (*CatalogAPI)(nil)
	_ ports.BuybackPriceAPI = (*VendorPriceAPI)(nil)
)

// CatalogAPI acceso al catálogo completo, sin paginar, para la selección de
// libros en filas.
type CatalogAPI struct{ c *Client }

func NewCatalogAPI(c *Client) *CatalogAPI { return &CatalogAPI{c: c} }

// AllBooks trae el catálogo entero; con vendorID restringe a los libros
// vendidos por el proveedor (selección en recompras).
func (a *CatalogAPI) AllBooks(ctx context.Context, vendorID *int64) ([]entity.Book, error) {
	params := url.Values{"no_pagination": {"true"}}
	if vendorID != nil {
		params.Set("vendor", strconv.FormatInt(*vendorID, 10))
	}
	var resp dto.ListResponse[dto.APIBook]
	if err := a.c.get(ctx, pathBooks, params, &resp); err != nil {
		return nil, err
	}
	books := make([]entity.Book, 0, len(resp.Results))
	for _, b := range resp.Results {
		books = append(books, dto.ToBook(b))
	}
	return books, nil
}

// VendorPriceAPI consulta remota del mejor precio de recompra por libro y
// proveedor.
type VendorPriceAPI struct{ c *Client }

func NewVendorPriceAPI(c *Client) *VendorPriceAPI { return &VendorPriceAPI{c: c} }

// BestBuybackPrice ejecuta GET vendors/bestbuybackprice?bookid=&vendor_id=.
// El backend responde un número JSON plano.
func (a *VendorPriceAPI) BestBuybackPrice(ctx context.Context, bookID, vendorID int64) (decimal.Decimal, error) {
	params := url.Values{
		"bookid":    {strconv.FormatInt(bookID, 10)},
		"vendor_id": {strconv.FormatInt(vendorID, 10)},
	}
	var price decimal.Decimal
	if err := a.c.get(ctx, pathVendors+"/bestbuybackprice", params, &price); err != nil {
		return decimal.Zero, err
	}
	return price, nil
}
