package http

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// CSVHandler maneja la importación de archivos tabulares por tipo de documento.
type CSVHandler struct {
	store *Store
}

// NewCSVHandler construye el handler.
func NewCSVHandler(store *Store) *CSVHandler {
	return &CSVHandler{store: store}
}

// priceHeader columna de precio requerida por tipo de documento.
func priceHeader(kind entity.DocumentKind) string {
	switch kind {
	case entity.DocumentPurchaseOrder:
		return "unit_wholesale_price"
	case entity.DocumentSale:
		return "unit_retail_price"
	default:
		return "unit_buyback_price"
	}
}

// parsedCSV resultado del análisis estructural del archivo.
type parsedCSV struct {
	headerIndex  map[string]int
	extraColumns []string
	records      [][]string
}

// parseCSV valida la estructura del archivo. Los mensajes de rechazo son
// contrato: el cliente los clasifica por contenido.
func (h *CSVHandler) parseCSV(r io.Reader, kind entity.DocumentKind) (*parsedCSV, []string) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	var records [][]string
	line := 0
	for {
		line++
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) && errors.Is(perr.Err, csv.ErrFieldCount) {
			return nil, []string{fmt.Sprintf("Expected %d fields in line %d, saw %d", len(records[0]), line, len(rec))}
		}
		if err != nil {
			return nil, []string{fmt.Sprintf("Expected valid CSV in line %d, parse failed", line)}
		}
		records = append(records, rec)
	}
	if len(records) == 0 {
		return nil, []string{"empty_csv"}
	}

	required := []string{"isbn_13", "quantity", priceHeader(kind)}
	headerIndex := map[string]int{}
	var extras []string
	var errs []string
	for i, name := range records[0] {
		name = strings.TrimSpace(strings.ToLower(name))
		if _, dup := headerIndex[name]; dup {
			errs = append(errs, "duplicate_valid_headers")
			continue
		}
		headerIndex[name] = i
		if !containsString(required, name) {
			extras = append(extras, name)
		}
	}
	for _, name := range required {
		if _, ok := headerIndex[name]; !ok {
			errs = append(errs, name+" column missing")
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return &parsedCSV{headerIndex: headerIndex, extraColumns: extras, records: records[1:]}, nil
}

func containsString(xs []string, target string) bool {
	for _, x := range xs {
		if x == target {
			return true
		}
	}
	return false
}

// importedCell fila importada con anotaciones por columna.
type importedCell struct {
	book     *dto.APIBook
	isbn     string
	quantity int64
	price    decimal.Decimal
	errs     map[string]string
}

// importRows aplica la validación por fila: ningún error de fila rechaza el
// documento, solo lo anota.
func (h *CSVHandler) importRows(p *parsedCSV, kind entity.DocumentKind, vendorID int64) []importedCell {
	priceCol := priceHeader(kind)
	cells := make([]importedCell, 0, len(p.records))
	for _, rec := range p.records {
		cell := importedCell{errs: map[string]string{}}

		cell.isbn = strings.TrimSpace(rec[p.headerIndex["isbn_13"]])
		switch {
		case cell.isbn == "":
			cell.errs["isbn_13"] = "empty_value"
		case !isISBN(cell.isbn):
			cell.errs["isbn_13"] = "invalid_isbn"
		default:
			cell.book = h.store.bookByISBN(cell.isbn)
			if cell.book == nil {
				cell.errs["isbn_13"] = "not_in_db"
			} else if kind == entity.DocumentBuyback && !h.store.vendorSells(vendorID, cell.book.ID) {
				cell.errs["isbn_13"] = "book_not_sold_by_vendor"
			}
		}

		rawQty := strings.TrimSpace(rec[p.headerIndex["quantity"]])
		switch {
		case rawQty == "":
			cell.errs["quantity"] = "empty_value"
		default:
			qty, err := strconv.ParseInt(rawQty, 10, 64)
			switch {
			case err != nil:
				cell.errs["quantity"] = "not_an_int"
			case qty < 0:
				cell.errs["quantity"] = "negative"
			case kind == entity.DocumentSale && cell.book != nil && qty > cell.book.Stock:
				cell.quantity = qty
				cell.errs["quantity"] = fmt.Sprintf("insufficient_stock_%d", cell.book.Stock)
			default:
				cell.quantity = qty
			}
		}

		rawPrice := strings.TrimSpace(rec[p.headerIndex[priceCol]])
		switch {
		case rawPrice == "":
			cell.errs[priceCol] = "empty_value"
		default:
			price, err := decimal.NewFromString(rawPrice)
			switch {
			case err != nil:
				cell.errs[priceCol] = "not_a_number"
			case price.IsNegative():
				cell.errs[priceCol] = "negative"
			default:
				cell.price = price
			}
		}

		if len(cell.errs) == 0 {
			cell.errs = nil
		}
		cells = append(cells, cell)
	}
	return cells
}

// isISBN acepta 13 o 10 dígitos (con guiones opcionales).
func isISBN(s string) bool {
	s = strings.ReplaceAll(s, "-", "")
	if len(s) != 13 && len(s) != 10 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (h *CSVHandler) openUpload(c *fiber.Ctx) (io.ReadCloser, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		return nil, err
	}
	return fh.Open()
}

// ImportPurchases POST purchase_orders/csv/import.
func (h *CSVHandler) ImportPurchases(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	file, err := h.openUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"empty_csv"}})
	}
	defer file.Close()

	parsed, errs := h.parseCSV(file, entity.DocumentPurchaseOrder)
	if errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	resp := dto.PurchaseCSVImportResponse{Errors: parsed.extraColumns}
	for _, cell := range h.importRows(parsed, entity.DocumentPurchaseOrder, 0) {
		row := dto.APIPurchaseCSVRow{
			ISBN13:             cell.isbn,
			Quantity:           dto.FlexInt(cell.quantity),
			UnitWholesalePrice: dto.FlexDecimal(cell.price),
			Errors:             cell.errs,
		}
		if cell.book != nil {
			row.Book = cell.book.ID
			row.BookTitle = cell.book.Title
		}
		resp.Purchases = append(resp.Purchases, row)
	}
	return c.JSON(resp)
}

// ImportSales POST sales/sales_reconciliation/csv/import.
func (h *CSVHandler) ImportSales(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	file, err := h.openUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"empty_csv"}})
	}
	defer file.Close()

	parsed, errs := h.parseCSV(file, entity.DocumentSale)
	if errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	resp := dto.SaleCSVImportResponse{Errors: parsed.extraColumns}
	for _, cell := range h.importRows(parsed, entity.DocumentSale, 0) {
		row := dto.APISaleCSVRow{
			ISBN13:          cell.isbn,
			Quantity:        dto.FlexInt(cell.quantity),
			UnitRetailPrice: dto.FlexDecimal(cell.price),
			Errors:          cell.errs,
		}
		if cell.book != nil {
			row.Book = cell.book.ID
			row.BookTitle = cell.book.Title
		}
		resp.Sales = append(resp.Sales, row)
	}
	return c.JSON(resp)
}

// ImportBuybacks POST buybacks/csv/import. El proveedor viaja como campo de
// formulario y es obligatorio: la validación de catálogo depende de él.
func (h *CSVHandler) ImportBuybacks(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	vendorID, err := strconv.ParseInt(c.FormValue("vendor"), 10, 64)
	if err != nil || h.store.vendorByID(vendorID) == nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"el proveedor es obligatorio"}})
	}
	file, err := h.openUpload(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"empty_csv"}})
	}
	defer file.Close()

	parsed, errs := h.parseCSV(file, entity.DocumentBuyback)
	if errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	resp := dto.BuybackCSVImportResponse{Errors: parsed.extraColumns}
	for _, cell := range h.importRows(parsed, entity.DocumentBuyback, vendorID) {
		row := dto.APIBuybackCSVRow{
			ISBN13:           cell.isbn,
			Quantity:         dto.FlexInt(cell.quantity),
			UnitBuybackPrice: dto.FlexDecimal(cell.price),
			Errors:           cell.errs,
		}
		if cell.book != nil {
			row.Book = cell.book.ID
			row.BookTitle = cell.book.Title
			if row.UnitBuybackPrice.Decimal().IsZero() {
				row.UnitBuybackPrice = dto.FlexDecimal(h.store.bestBuybackPrice(cell.book.ID, vendorID))
			}
		}
		resp.Buybacks = append(resp.Buybacks, row)
	}
	return c.JSON(resp)
}
