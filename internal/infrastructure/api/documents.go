package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// Verificación en tiempo de compilación de los adaptadores de documento.
var (
	_ ports.DocumentAPI = (*PurchaseOrdersAPI)(nil)
	_ ports.DocumentAPI = (*SalesAPI)(nil)
	_ ports.DocumentAPI = (*BuybacksAPI)(nil)
	_ ports.CSVImporter = (*PurchaseOrdersAPI)(nil)
	_ ports.CSVImporter = (*SalesAPI)(nil)
	_ ports.CSVImporter = (*BuybacksAPI)(nil)
)

// mapFetchError traduce el 404 del backend al centinela de dominio.
func mapFetchError(err error) error {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, herr.Error())
	}
	return err
}

// mapSubmitError traduce un rechazo 4xx de alta/modificación a
// *ports.SubmitRejectedError con los mensajes del backend tal cual.
func mapSubmitError(err error) error {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.IsClientError() {
		return &ports.SubmitRejectedError{Errors: herr.Errors}
	}
	return err
}

// mapImportError traduce un rechazo 4xx de importación a
// *ports.ImportRejectedError para su clasificación posterior.
func mapImportError(err error) error {
	var herr *HTTPError
	if errors.As(err, &herr) && herr.IsClientError() {
		return &ports.ImportRejectedError{Errors: herr.Errors}
	}
	return err
}

func importFields(vendorID string) map[string]string {
	if vendorID == "" {
		return nil
	}
	return map[string]string{"vendor": vendorID}
}

// ── Órdenes de compra ────────────────────────────────────────────────────────

// PurchaseOrdersAPI adaptador de documentos de compra.
type PurchaseOrdersAPI struct{ c *Client }

func NewPurchaseOrdersAPI(c *Client) *PurchaseOrdersAPI { return &PurchaseOrdersAPI{c: c} }

// FetchDocument trae el detalle de una orden de compra con sus líneas.
func (a *PurchaseOrdersAPI) FetchDocument(ctx context.Context, id string) (entity.Document, []entity.LineItem, error) {
	var po dto.APIPurchaseOrder
	if err := a.c.get(ctx, pathPurchaseOrders+"/"+id, nil, &po); err != nil {
		return entity.Document{}, nil, mapFetchError(err)
	}
	doc := entity.Document{
		ID:          id,
		Kind:        entity.DocumentPurchaseOrder,
		Date:        parseWireDate(po.Date),
		VendorID:    po.VendorID,
		VendorName:  po.VendorName,
		IsDeletable: po.IsDeletable,
	}
	return doc, dto.PurchaseRowsToLineItems(po.Purchases), nil
}

// AddDocument da de alta la orden de compra con todas sus líneas.
func (a *PurchaseOrdersAPI) AddDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddPurchaseOrderRequest{
		Date:      doc.Date.Format(dto.DateLayout),
		Vendor:    doc.VendorID,
		Purchases: dto.LineItemsToPurchaseRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPost, pathPurchaseOrders, req, nil))
}

// ModifyDocument reemplaza completas las líneas de la orden persistida.
func (a *PurchaseOrdersAPI) ModifyDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddPurchaseOrderRequest{
		ID:        doc.ID,
		Date:      doc.Date.Format(dto.DateLayout),
		Vendor:    doc.VendorID,
		Purchases: dto.LineItemsToPurchaseRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPatch, pathPurchaseOrders+"/"+doc.ID, req, nil))
}

// DeleteDocument borra la orden de compra.
func (a *PurchaseOrdersAPI) DeleteDocument(ctx context.Context, id string) error {
	return mapFetchError(a.c.delete(ctx, pathPurchaseOrders+"/"+id))
}

// ImportCSV sube el archivo tabular de compras y normaliza la respuesta.
func (a *PurchaseOrdersAPI) ImportCSV(ctx context.Context, file io.Reader, filename, vendorID string) (*dto.CSVImportResult, error) {
	var resp dto.PurchaseCSVImportResponse
	err := a.c.postMultipart(ctx, pathPurchaseOrders+"/csv/import", file, filename, importFields(vendorID), &resp)
	if err != nil {
		return nil, mapImportError(err)
	}
	rows := make([]dto.ImportedRow, 0, len(resp.Purchases))
	for _, r := range resp.Purchases {
		rows = append(rows, dto.ImportedRow{
			BookID:    r.Book,
			BookTitle: r.BookTitle,
			ISBN13:    r.ISBN13,
			Quantity:  int64(r.Quantity),
			Price:     r.UnitWholesalePrice.Decimal(),
			Errors:    r.Errors,
		})
	}
	return &dto.CSVImportResult{Rows: rows, Errors: resp.Errors}, nil
}

// ── Conciliaciones de venta ──────────────────────────────────────────────────

// SalesAPI adaptador de documentos de venta.
type SalesAPI struct{ c *Client }

func NewSalesAPI(c *Client) *SalesAPI { return &SalesAPI{c: c} }

// FetchDocument trae el detalle de una conciliación de venta con sus líneas.
func (a *SalesAPI) FetchDocument(ctx context.Context, id string) (entity.Document, []entity.LineItem, error) {
	var sr dto.APISalesReconciliation
	if err := a.c.get(ctx, pathSales+"/"+id, nil, &sr); err != nil {
		return entity.Document{}, nil, mapFetchError(err)
	}
	doc := entity.Document{
		ID:          id,
		Kind:        entity.DocumentSale,
		Date:        parseWireDate(sr.Date),
		IsDeletable: sr.IsDeletable,
	}
	return doc, dto.SaleRowsToLineItems(sr.Sales), nil
}

// AddDocument da de alta la conciliación de venta. Las ventas no llevan proveedor.
func (a *SalesAPI) AddDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddSalesReconciliationRequest{
		Date:  doc.Date.Format(dto.DateLayout),
		Sales: dto.LineItemsToSaleRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPost, pathSales, req, nil))
}

// ModifyDocument reemplaza completas las líneas de la conciliación persistida.
func (a *SalesAPI) ModifyDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddSalesReconciliationRequest{
		ID:    doc.ID,
		Date:  doc.Date.Format(dto.DateLayout),
		Sales: dto.LineItemsToSaleRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPatch, pathSales+"/"+doc.ID, req, nil))
}

// DeleteDocument borra la conciliación de venta.
func (a *SalesAPI) DeleteDocument(ctx context.Context, id string) error {
	return mapFetchError(a.c.delete(ctx, pathSales+"/"+id))
}

// ImportCSV sube el archivo tabular de ventas y normaliza la respuesta.
func (a *SalesAPI) ImportCSV(ctx context.Context, file io.Reader, filename, vendorID string) (*dto.CSVImportResult, error) {
	var resp dto.SaleCSVImportResponse
	err := a.c.postMultipart(ctx, pathSales+"/csv/import", file, filename, importFields(vendorID), &resp)
	if err != nil {
		return nil, mapImportError(err)
	}
	rows := make([]dto.ImportedRow, 0, len(resp.Sales))
	for _, r := range resp.Sales {
		rows = append(rows, dto.ImportedRow{
			BookID:    r.Book,
			BookTitle: r.BookTitle,
			ISBN13:    r.ISBN13,
			Quantity:  int64(r.Quantity),
			Price:     r.UnitRetailPrice.Decimal(),
			Errors:    r.Errors,
		})
	}
	return &dto.CSVImportResult{Rows: rows, Errors: resp.Errors}, nil
}

// ── Recompras ────────────────────────────────────────────────────────────────

// BuybacksAPI adaptador de documentos de recompra.
type BuybacksAPI struct{ c *Client }

func NewBuybacksAPI(c *Client) *BuybacksAPI { return &BuybacksAPI{c: c} }

// FetchDocument trae el detalle de una recompra con sus líneas.
func (a *BuybacksAPI) FetchDocument(ctx context.Context, id string) (entity.Document, []entity.LineItem, error) {
	var bb dto.APIBuyback
	if err := a.c.get(ctx, pathBuybacks+"/"+id, nil, &bb); err != nil {
		return entity.Document{}, nil, mapFetchError(err)
	}
	doc := entity.Document{
		ID:          id,
		Kind:        entity.DocumentBuyback,
		Date:        parseWireDate(bb.Date),
		VendorID:    bb.VendorID,
		VendorName:  bb.VendorName,
		IsDeletable: bb.IsDeletable,
	}
	return doc, dto.BuybackRowsToLineItems(bb.Buybacks), nil
}

// AddDocument da de alta la recompra con todas sus líneas.
func (a *BuybacksAPI) AddDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddBuybackRequest{
		Date:     doc.Date.Format(dto.DateLayout),
		Vendor:   doc.VendorID,
		Buybacks: dto.LineItemsToBuybackRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPost, pathBuybacks, req, nil))
}

// ModifyDocument reemplaza completas las líneas de la recompra persistida.
func (a *BuybacksAPI) ModifyDocument(ctx context.Context, doc entity.Document, items []entity.LineItem) error {
	req := dto.AddBuybackRequest{
		ID:       doc.ID,
		Date:     doc.Date.Format(dto.DateLayout),
		Vendor:   doc.VendorID,
		Buybacks: dto.LineItemsToBuybackRows(items),
	}
	return mapSubmitError(a.c.send(ctx, http.MethodPatch, pathBuybacks+"/"+doc.ID, req, nil))
}

// DeleteDocument borra la recompra.
func (a *BuybacksAPI) DeleteDocument(ctx context.Context, id string) error {
	return mapFetchError(a.c.delete(ctx, pathBuybacks+"/"+id))
}

// ImportCSV sube el archivo tabular de recompras. vendorID es obligatorio para
// este tipo de documento y viaja como campo de formulario junto al archivo.
func (a *BuybacksAPI) ImportCSV(ctx context.Context, file io.Reader, filename, vendorID string) (*dto.CSVImportResult, error) {
	var resp dto.BuybackCSVImportResponse
	err := a.c.postMultipart(ctx, pathBuybacks+"/csv/import", file, filename, importFields(vendorID), &resp)
	if err != nil {
		return nil, mapImportError(err)
	}
	rows := make([]dto.ImportedRow, 0, len(resp.Buybacks))
	for _, r := range resp.Buybacks {
		rows = append(rows, dto.ImportedRow{
			BookID:    r.Book,
			BookTitle: r.BookTitle,
			ISBN13:    r.ISBN13,
			Quantity:  int64(r.Quantity),
			Price:     r.UnitBuybackPrice.Decimal(),
			Errors:    r.Errors,
		})
	}
	return &dto.CSVImportResult{Rows: rows, Errors: resp.Errors}, nil
}

func parseWireDate(s string) time.Time {
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
