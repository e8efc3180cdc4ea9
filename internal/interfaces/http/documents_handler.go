package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// DocumentsHandler maneja el CRUD de los tres tipos de documento.
type DocumentsHandler struct {
	store *Store
}

// NewDocumentsHandler construye el handler.
func NewDocumentsHandler(store *Store) *DocumentsHandler {
	return &DocumentsHandler{store: store}
}

// aggregates calcula los agregados derivados de un documento.
func aggregates(rows []storedRow) (numBooks, uniqueBooks int64, total decimal.Decimal) {
	seen := map[int64]bool{}
	total = decimal.Zero
	for _, r := range rows {
		numBooks += r.Quantity
		seen[r.BookID] = true
		total = total.Add(r.Price.Mul(decimal.NewFromInt(r.Quantity)))
	}
	return numBooks, int64(len(seen)), total
}

func (h *DocumentsHandler) docsOf(kind entity.DocumentKind) []*storedDoc {
	out := make([]*storedDoc, 0, len(h.store.docs[kind]))
	for _, d := range h.store.docs[kind] {
		out = append(out, d)
	}
	return out
}

func (h *DocumentsHandler) rowID(id *int64) *int64 {
	if id != nil {
		return id
	}
	fresh := h.store.newID()
	return &fresh
}

// ── Órdenes de compra ────────────────────────────────────────────────────────

func (h *DocumentsHandler) toPurchaseOrder(d *storedDoc) dto.APIPurchaseOrder {
	numBooks, uniqueBooks, total := aggregates(d.Rows)
	po := dto.APIPurchaseOrder{
		ID:             d.ID,
		Date:           d.Date,
		VendorID:       d.VendorID,
		IsDeletable:    true,
		NumBooks:       numBooks,
		NumUniqueBooks: uniqueBooks,
		TotalCost:      total,
	}
	if v := h.store.vendorByID(d.VendorID); v != nil {
		po.VendorName = v.Name
	}
	for _, r := range d.Rows {
		id := r.ID
		row := dto.APIPurchaseRow{ID: &id, Book: r.BookID, Quantity: r.Quantity, UnitWholesalePrice: r.Price}
		if b := h.store.bookByID(r.BookID); b != nil {
			row.BookTitle = b.Title
			row.BookISBN = b.ISBN13
		}
		po.Purchases = append(po.Purchases, row)
	}
	return po
}

// ListPurchaseOrders GET purchase_orders.
func (h *DocumentsHandler) ListPurchaseOrders(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APIPurchaseOrder, 0)
	for _, d := range h.docsOf(entity.DocumentPurchaseOrder) {
		rows = append(rows, h.toPurchaseOrder(d))
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIPurchaseOrder) bool{
		"date":             func(a, b dto.APIPurchaseOrder) bool { return a.Date < b.Date },
		"vendor_name":      func(a, b dto.APIPurchaseOrder) bool { return a.VendorName < b.VendorName },
		"num_books":        func(a, b dto.APIPurchaseOrder) bool { return a.NumBooks < b.NumBooks },
		"num_unique_books": func(a, b dto.APIPurchaseOrder) bool { return a.NumUniqueBooks < b.NumUniqueBooks },
		"total_cost":       func(a, b dto.APIPurchaseOrder) bool { return a.TotalCost.LessThan(b.TotalCost) },
		"id":               func(a, b dto.APIPurchaseOrder) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// GetPurchaseOrder GET purchase_orders/:id.
func (h *DocumentsHandler) GetPurchaseOrder(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentPurchaseOrder][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"orden de compra no encontrada"}})
	}
	return c.JSON(h.toPurchaseOrder(d))
}

// AddPurchaseOrder POST purchase_orders.
func (h *DocumentsHandler) AddPurchaseOrder(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var in dto.AddPurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	if errs := h.validateHeader(in.Date, &in.Vendor); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d := &storedDoc{ID: h.store.newID(), Kind: entity.DocumentPurchaseOrder, Date: in.Date, VendorID: in.Vendor}
	for _, r := range in.Purchases {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitWholesalePrice})
	}
	h.store.docs[entity.DocumentPurchaseOrder][d.ID] = d
	return c.Status(fiber.StatusCreated).JSON(h.toPurchaseOrder(d))
}

// ModifyPurchaseOrder PATCH purchase_orders/:id (reemplazo completo de líneas).
func (h *DocumentsHandler) ModifyPurchaseOrder(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentPurchaseOrder][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"orden de compra no encontrada"}})
	}
	var in dto.AddPurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	if errs := h.validateHeader(in.Date, &in.Vendor); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d.Date = in.Date
	d.VendorID = in.Vendor
	d.Rows = nil
	for _, r := range in.Purchases {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitWholesalePrice})
	}
	return c.JSON(h.toPurchaseOrder(d))
}

// DeletePurchaseOrder DELETE purchase_orders/:id.
func (h *DocumentsHandler) DeletePurchaseOrder(c *fiber.Ctx) error {
	return h.deleteDoc(c, entity.DocumentPurchaseOrder)
}

// ── Conciliaciones de venta ──────────────────────────────────────────────────

func (h *DocumentsHandler) toSalesReconciliation(d *storedDoc) dto.APISalesReconciliation {
	numBooks, uniqueBooks, total := aggregates(d.Rows)
	sr := dto.APISalesReconciliation{
		ID:             d.ID,
		Date:           d.Date,
		IsDeletable:    true,
		NumBooks:       numBooks,
		NumUniqueBooks: uniqueBooks,
		TotalRevenue:   total,
	}
	for _, r := range d.Rows {
		id := r.ID
		row := dto.APISaleRow{ID: &id, Book: r.BookID, Quantity: r.Quantity, UnitRetailPrice: r.Price}
		if b := h.store.bookByID(r.BookID); b != nil {
			row.BookTitle = b.Title
			row.BookISBN = b.ISBN13
		}
		sr.Sales = append(sr.Sales, row)
	}
	return sr
}

// ListSalesReconciliations GET sales/sales_reconciliation.
func (h *DocumentsHandler) ListSalesReconciliations(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APISalesReconciliation, 0)
	for _, d := range h.docsOf(entity.DocumentSale) {
		rows = append(rows, h.toSalesReconciliation(d))
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APISalesReconciliation) bool{
		"date":             func(a, b dto.APISalesReconciliation) bool { return a.Date < b.Date },
		"num_books":        func(a, b dto.APISalesReconciliation) bool { return a.NumBooks < b.NumBooks },
		"num_unique_books": func(a, b dto.APISalesReconciliation) bool { return a.NumUniqueBooks < b.NumUniqueBooks },
		"total_revenue":    func(a, b dto.APISalesReconciliation) bool { return a.TotalRevenue.LessThan(b.TotalRevenue) },
		"id":               func(a, b dto.APISalesReconciliation) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// GetSalesReconciliation GET sales/sales_reconciliation/:id.
func (h *DocumentsHandler) GetSalesReconciliation(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentSale][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"conciliación no encontrada"}})
	}
	return c.JSON(h.toSalesReconciliation(d))
}

// AddSalesReconciliation POST sales/sales_reconciliation. Valida stock: una
// venta no puede superar el stock vigente del libro.
func (h *DocumentsHandler) AddSalesReconciliation(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var in dto.AddSalesReconciliationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	errs := h.validateHeader(in.Date, nil)
	for _, r := range in.Sales {
		if b := h.store.bookByID(r.Book); b != nil && r.Quantity > b.Stock {
			errs = append(errs, "stock insuficiente para "+b.Title)
		}
	}
	if len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d := &storedDoc{ID: h.store.newID(), Kind: entity.DocumentSale, Date: in.Date}
	for _, r := range in.Sales {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitRetailPrice})
	}
	h.store.docs[entity.DocumentSale][d.ID] = d
	return c.Status(fiber.StatusCreated).JSON(h.toSalesReconciliation(d))
}

// ModifySalesReconciliation PATCH sales/sales_reconciliation/:id.
func (h *DocumentsHandler) ModifySalesReconciliation(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentSale][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"conciliación no encontrada"}})
	}
	var in dto.AddSalesReconciliationRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	if errs := h.validateHeader(in.Date, nil); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d.Date = in.Date
	d.Rows = nil
	for _, r := range in.Sales {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitRetailPrice})
	}
	return c.JSON(h.toSalesReconciliation(d))
}

// DeleteSalesReconciliation DELETE sales/sales_reconciliation/:id.
func (h *DocumentsHandler) DeleteSalesReconciliation(c *fiber.Ctx) error {
	return h.deleteDoc(c, entity.DocumentSale)
}

// ── Recompras ────────────────────────────────────────────────────────────────

func (h *DocumentsHandler) toBuyback(d *storedDoc) dto.APIBuyback {
	numBooks, uniqueBooks, total := aggregates(d.Rows)
	bb := dto.APIBuyback{
		ID:             d.ID,
		Date:           d.Date,
		VendorID:       d.VendorID,
		IsDeletable:    true,
		NumBooks:       numBooks,
		NumUniqueBooks: uniqueBooks,
		TotalRevenue:   total,
	}
	if v := h.store.vendorByID(d.VendorID); v != nil {
		bb.VendorName = v.Name
	}
	for _, r := range d.Rows {
		id := r.ID
		row := dto.APIBuybackRow{ID: &id, Book: r.BookID, Quantity: r.Quantity, UnitBuybackPrice: r.Price}
		if b := h.store.bookByID(r.BookID); b != nil {
			row.BookTitle = b.Title
			row.BookISBN = b.ISBN13
		}
		bb.Buybacks = append(bb.Buybacks, row)
	}
	return bb
}

// ListBuybacks GET buybacks.
func (h *DocumentsHandler) ListBuybacks(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APIBuyback, 0)
	for _, d := range h.docsOf(entity.DocumentBuyback) {
		rows = append(rows, h.toBuyback(d))
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIBuyback) bool{
		"date":             func(a, b dto.APIBuyback) bool { return a.Date < b.Date },
		"vendor_name":      func(a, b dto.APIBuyback) bool { return a.VendorName < b.VendorName },
		"num_books":        func(a, b dto.APIBuyback) bool { return a.NumBooks < b.NumBooks },
		"num_unique_books": func(a, b dto.APIBuyback) bool { return a.NumUniqueBooks < b.NumUniqueBooks },
		"total_revenue":    func(a, b dto.APIBuyback) bool { return a.TotalRevenue.LessThan(b.TotalRevenue) },
		"id":               func(a, b dto.APIBuyback) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// GetBuyback GET buybacks/:id.
func (h *DocumentsHandler) GetBuyback(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentBuyback][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"recompra no encontrada"}})
	}
	return c.JSON(h.toBuyback(d))
}

// AddBuyback POST buybacks.
func (h *DocumentsHandler) AddBuyback(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	var in dto.AddBuybackRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	if errs := h.validateHeader(in.Date, &in.Vendor); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d := &storedDoc{ID: h.store.newID(), Kind: entity.DocumentBuyback, Date: in.Date, VendorID: in.Vendor}
	for _, r := range in.Buybacks {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitBuybackPrice})
	}
	h.store.docs[entity.DocumentBuyback][d.ID] = d
	return c.Status(fiber.StatusCreated).JSON(h.toBuyback(d))
}

// ModifyBuyback PATCH buybacks/:id.
func (h *DocumentsHandler) ModifyBuyback(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	d, ok := h.store.docs[entity.DocumentBuyback][id]
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"recompra no encontrada"}})
	}
	var in dto.AddBuybackRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"cuerpo inválido"}})
	}
	if errs := h.validateHeader(in.Date, &in.Vendor); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: errs})
	}
	d.Date = in.Date
	d.VendorID = in.Vendor
	d.Rows = nil
	for _, r := range in.Buybacks {
		d.Rows = append(d.Rows, storedRow{ID: *h.rowID(r.ID), BookID: r.Book, Quantity: r.Quantity, Price: r.UnitBuybackPrice})
	}
	return c.JSON(h.toBuyback(d))
}

// DeleteBuyback DELETE buybacks/:id.
func (h *DocumentsHandler) DeleteBuyback(c *fiber.Ctx) error {
	return h.deleteDoc(c, entity.DocumentBuyback)
}

// ── Comunes ──────────────────────────────────────────────────────────────────

func (h *DocumentsHandler) validateHeader(date string, vendorID *int64) []string {
	var errs []string
	if date == "" {
		errs = append(errs, "la fecha es obligatoria")
	}
	if vendorID != nil {
		if *vendorID == 0 {
			errs = append(errs, "el proveedor es obligatorio")
		} else if h.store.vendorByID(*vendorID) == nil {
			errs = append(errs, "proveedor inexistente")
		}
	}
	return errs
}

func (h *DocumentsHandler) deleteDoc(c *fiber.Ctx, kind entity.DocumentKind) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	id, _ := strconv.ParseInt(c.Params("id"), 10, 64)
	if _, ok := h.store.docs[kind][id]; !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorsResponse{Errors: []string{"documento no encontrado"}})
	}
	delete(h.store.docs[kind], id)
	return c.SendStatus(fiber.StatusNoContent)
}
