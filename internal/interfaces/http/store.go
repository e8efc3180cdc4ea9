package http

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/domain/entity"
)

// storedRow línea persistida de un documento del servidor de desarrollo.
type storedRow struct {
	ID       int64
	BookID   int64
	Quantity int64
	Price    decimal.Decimal
}

// storedDoc documento persistido (cualquier tipo).
type storedDoc struct {
	ID       int64
	Kind     entity.DocumentKind
	Date     string
	VendorID int64
	Rows     []storedRow
}

// Store estado en memoria del servidor de desarrollo. Arranca sembrado con un
// catálogo chico; todo se pierde al apagar el proceso.
type Store struct {
	mu      sync.Mutex
	books   []dto.APIBook
	vendors []dto.APIVendor
	genres  []dto.APIGenre
	users   []dto.APIUser
	docs    map[entity.DocumentKind]map[int64]*storedDoc
	// vendorBooks restringe qué libros vende cada proveedor (recompras).
	vendorBooks map[int64]map[int64]bool
	nextID      int64
}

// NewStore crea el estado sembrado.
func NewStore() *Store {
	s := &Store{
		docs: map[entity.DocumentKind]map[int64]*storedDoc{
			entity.DocumentPurchaseOrder: {},
			entity.DocumentSale:          {},
			entity.DocumentBuyback:       {},
		},
		vendorBooks: map[int64]map[int64]bool{},
		nextID:      1000,
	}
	s.seed()
	return s
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func (s *Store) seed() {
	s.books = []dto.APIBook{
		{ID: 1, Title: "Cien años de soledad", Authors: []string{"Gabriel García Márquez"}, Genres: []string{"Ficción"}, ISBN13: "9780307474728", ISBN10: "0307474720", Publisher: "Vintage Español", PublishedDate: 1967, PageCount: 417, RetailPrice: dec("14.95"), BestBuybackPrice: dec("4.10"), Stock: 12},
		{ID: 2, Title: "La casa de los espíritus", Authors: []string{"Isabel Allende"}, Genres: []string{"Ficción"}, ISBN13: "9780525433477", Publisher: "Vintage Español", PublishedDate: 1982, PageCount: 496, RetailPrice: dec("16.00"), BestBuybackPrice: dec("5.25"), Stock: 3},
		{ID: 3, Title: "Rayuela", Authors: []string{"Julio Cortázar"}, Genres: []string{"Ficción", "Clásicos"}, ISBN13: "9788437604572", Publisher: "Cátedra", PublishedDate: 1963, PageCount: 736, RetailPrice: dec("22.50"), BestBuybackPrice: dec("7.00"), Stock: 0},
		{ID: 4, Title: "El Aleph", Authors: []string{"Jorge Luis Borges"}, Genres: []string{"Cuentos"}, ISBN13: "9780307950939", Publisher: "Debolsillo", PublishedDate: 1949, PageCount: 208, RetailPrice: dec("11.95"), BestBuybackPrice: dec("3.50"), Stock: 25},
	}
	s.vendors = []dto.APIVendor{
		{ID: 1, Name: "Distribuidora Andina", NumPurchaseOrders: 2, BuybackRate: dec("30")},
		{ID: 2, Name: "Libros del Sur", NumPurchaseOrders: 0, BuybackRate: dec("25")},
	}
	s.genres = []dto.APIGenre{
		{ID: 1, Name: "Ficción", BookCount: 3},
		{ID: 2, Name: "Clásicos", BookCount: 1},
		{ID: 3, Name: "Cuentos", BookCount: 1},
	}
	s.users = []dto.APIUser{
		{ID: 1, UserName: "admin", IsAdmin: true},
		{ID: 2, UserName: "mostrador", IsAdmin: false},
	}
	s.vendorBooks[1] = map[int64]bool{1: true, 2: true, 4: true}
	s.vendorBooks[2] = map[int64]bool{3: true, 4: true}
}

func (s *Store) newID() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) bookByID(id int64) *dto.APIBook {
	for i := range s.books {
		if s.books[i].ID == id {
			return &s.books[i]
		}
	}
	return nil
}

func (s *Store) bookByISBN(isbn string) *dto.APIBook {
	isbn = strings.TrimSpace(isbn)
	for i := range s.books {
		if s.books[i].ISBN13 == isbn {
			return &s.books[i]
		}
	}
	return nil
}

func (s *Store) vendorByID(id int64) *dto.APIVendor {
	for i := range s.vendors {
		if s.vendors[i].ID == id {
			return &s.vendors[i]
		}
	}
	return nil
}

// vendorSells indica si el proveedor comercializa el libro.
func (s *Store) vendorSells(vendorID, bookID int64) bool {
	return s.vendorBooks[vendorID][bookID]
}

// bestBuybackPrice calcula el precio de recompra: precio de venta por la tasa
// de recompra del proveedor.
func (s *Store) bestBuybackPrice(bookID, vendorID int64) decimal.Decimal {
	book := s.bookByID(bookID)
	vendor := s.vendorByID(vendorID)
	if book == nil || vendor == nil {
		return decimal.Zero
	}
	return book.RetailPrice.Mul(vendor.BuybackRate).Div(decimal.NewFromInt(100)).Round(2)
}
