// Package http implementa el servidor de desarrollo: un backend de librería en
// memoria con el mismo protocolo que el servicio real, para desarrollo local y
// pruebas de integración del cliente.
package http

import (
	"sort"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/invorya/libreria-client/internal/application/dto"
)

// listParams parámetros de listado del protocolo.
type listParams struct {
	page         int
	pageSize     int
	noPagination bool
	ordering     string
	search       string
}

func parseListParams(c *fiber.Ctx) listParams {
	p := listParams{page: 1, pageSize: 10}
	if n, err := strconv.Atoi(c.Query("page")); err == nil && n > 0 {
		p.page = n
	}
	if n, err := strconv.Atoi(c.Query("page_size")); err == nil && n > 0 {
		p.pageSize = n
	}
	p.noPagination = c.Query("no_pagination") == "true"
	p.ordering = c.Query("ordering")
	p.search = strings.ToLower(strings.TrimSpace(c.Query("search")))
	return p
}

// orderSlice ordena según el campo del protocolo; el prefijo "-" invierte.
func orderSlice[T any](rows []T, ordering string, less map[string]func(a, b T) bool) {
	field := strings.TrimPrefix(ordering, "-")
	fn, ok := less[field]
	if !ok {
		return
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if strings.HasPrefix(ordering, "-") {
			return fn(rows[j], rows[i])
		}
		return fn(rows[i], rows[j])
	})
}

// paginate recorta la página pedida y devuelve filas más conteo total.
func paginate[T any](rows []T, p listParams) ([]T, int) {
	total := len(rows)
	if p.noPagination {
		return rows, total
	}
	start := (p.page - 1) * p.pageSize
	if start >= total {
		return []T{}, total
	}
	end := start + p.pageSize
	if end > total {
		end = total
	}
	return rows[start:end], total
}

func respond[T any](c *fiber.Ctx, rows []T, count int) error {
	return c.JSON(dto.ListResponse[T]{Results: rows, Count: count})
}

// ListHandler maneja los listados de todas las entidades.
type ListHandler struct {
	store *Store
}

// NewListHandler construye el handler.
func NewListHandler(store *Store) *ListHandler {
	return &ListHandler{store: store}
}

// Books GET books/ con búsqueda por ámbito, filtro por género y orden.
func (h *ListHandler) Books(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	genre := c.Query("genre")
	vendor, _ := strconv.ParseInt(c.Query("vendor"), 10, 64)

	rows := make([]dto.APIBook, 0, len(h.store.books))
	for _, b := range h.store.books {
		if p.search != "" && !bookMatches(c, b, p.search) {
			continue
		}
		if genre != "" && !contains(b.Genres, genre) {
			continue
		}
		if vendor != 0 && !h.store.vendorSells(vendor, b.ID) {
			continue
		}
		rows = append(rows, b)
	}

	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIBook) bool{
		"title":              func(a, b dto.APIBook) bool { return a.Title < b.Title },
		"publisher":          func(a, b dto.APIBook) bool { return a.Publisher < b.Publisher },
		"isbn_13":            func(a, b dto.APIBook) bool { return a.ISBN13 < b.ISBN13 },
		"retail_price":       func(a, b dto.APIBook) bool { return a.RetailPrice.LessThan(b.RetailPrice) },
		"best_buyback_price": func(a, b dto.APIBook) bool { return a.BestBuybackPrice.LessThan(b.BestBuybackPrice) },
		"stock":              func(a, b dto.APIBook) bool { return a.Stock < b.Stock },
		"last_month_sales":   func(a, b dto.APIBook) bool { return a.LastMonthSales < b.LastMonthSales },
		"shelf_space":        func(a, b dto.APIBook) bool { return a.ShelfSpace.LessThan(b.ShelfSpace) },
		"days_of_supply":     func(a, b dto.APIBook) bool { return a.DaysOfSupply.LessThan(b.DaysOfSupply) },
		"id":                 func(a, b dto.APIBook) bool { return a.ID < b.ID },
	})

	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// bookMatches aplica la búsqueda de ámbito único: un solo campo activo por
// consulta, o todos cuando no hay ámbito.
func bookMatches(c *fiber.Ctx, b dto.APIBook, search string) bool {
	switch {
	case c.Query("title_only") == "true":
		return strings.Contains(strings.ToLower(b.Title), search)
	case c.Query("publisher_only") == "true":
		return strings.Contains(strings.ToLower(b.Publisher), search)
	case c.Query("author_only") == "true":
		return strings.Contains(strings.ToLower(strings.Join(b.Authors, ", ")), search)
	case c.Query("isbn_only") == "true":
		return strings.Contains(b.ISBN13, search) || strings.Contains(b.ISBN10, search)
	default:
		return strings.Contains(strings.ToLower(b.Title), search) ||
			strings.Contains(strings.ToLower(b.Publisher), search) ||
			strings.Contains(strings.ToLower(strings.Join(b.Authors, ", ")), search) ||
			strings.Contains(b.ISBN13, search)
	}
}

func contains(xs []string, target string) bool {
	for _, x := range xs {
		if strings.EqualFold(x, target) {
			return true
		}
	}
	return false
}

// Vendors GET vendors.
func (h *ListHandler) Vendors(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APIVendor, 0, len(h.store.vendors))
	for _, v := range h.store.vendors {
		if p.search != "" && !strings.Contains(strings.ToLower(v.Name), p.search) {
			continue
		}
		rows = append(rows, v)
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIVendor) bool{
		"name":                         func(a, b dto.APIVendor) bool { return a.Name < b.Name },
		"num_purchase_orders":          func(a, b dto.APIVendor) bool { return a.NumPurchaseOrders < b.NumPurchaseOrders },
		"null_considered_buyback_rate": func(a, b dto.APIVendor) bool { return a.BuybackRate.LessThan(b.BuybackRate) },
		"id":                           func(a, b dto.APIVendor) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// Genres GET genres.
func (h *ListHandler) Genres(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APIGenre, 0, len(h.store.genres))
	for _, g := range h.store.genres {
		if p.search != "" && !strings.Contains(strings.ToLower(g.Name), p.search) {
			continue
		}
		rows = append(rows, g)
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIGenre) bool{
		"name":     func(a, b dto.APIGenre) bool { return a.Name < b.Name },
		"book_cnt": func(a, b dto.APIGenre) bool { return a.BookCount < b.BookCount },
		"id":       func(a, b dto.APIGenre) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// Users GET auth/users.
func (h *ListHandler) Users(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := parseListParams(c)
	rows := make([]dto.APIUser, 0, len(h.store.users))
	for _, u := range h.store.users {
		if p.search != "" && !strings.Contains(strings.ToLower(u.UserName), p.search) {
			continue
		}
		rows = append(rows, u)
	}
	orderSlice(rows, p.ordering, map[string]func(a, b dto.APIUser) bool{
		"username": func(a, b dto.APIUser) bool { return a.UserName < b.UserName },
		"is_staff": func(a, b dto.APIUser) bool { return !a.IsAdmin && b.IsAdmin },
		"id":       func(a, b dto.APIUser) bool { return a.ID < b.ID },
	})
	page, count := paginate(rows, p)
	return respond(c, page, count)
}

// BestBuybackPrice GET vendors/bestbuybackprice?bookid=&vendor_id=.
// Responde un número JSON plano.
func (h *ListHandler) BestBuybackPrice(c *fiber.Ctx) error {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	bookID, err := strconv.ParseInt(c.Query("bookid"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"bookid inválido"}})
	}
	vendorID, err := strconv.ParseInt(c.Query("vendor_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorsResponse{Errors: []string{"vendor_id inválido"}})
	}
	return c.JSON(h.store.bestBuybackPrice(bookID, vendorID))
}
