package api_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/libreria-client/internal/application/listquery"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/infrastructure/api"
	"github.com/invorya/libreria-client/pkg/config"
)

func newClient(t *testing.T, handler http.HandlerFunc) (*api.Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := api.NewClient(config.APIConfig{
		BaseURL: srv.URL,
		Token:   "token-de-prueba",
		Timeout: 5 * time.Second,
	}, nil)
	return c, srv
}

func TestBookList_ProtocoloDeConsulta(t *testing.T) {
	var gotPath string
	var gotQuery map[string][]string
	var gotAuth string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{{"id": 1, "title": "El Aleph", "isbn_13": "9780307950939", "retail_price": "11.95", "authors": []string{"Jorge Luis Borges"}}},
			"count":   31,
		})
	})

	res, err := api.NewBookList(c).List(context.Background(), listquery.Query{
		Page:        3,
		PageSize:    25,
		Ordering:    "-retail_price",
		Search:      "aleph",
		SearchScope: "title_only",
		Filters:     map[string]string{"genre": "Cuentos"},
	})

	require.NoError(t, err)
	assert.Equal(t, "/books/", gotPath)
	assert.Equal(t, []string{"3"}, gotQuery["page"])
	assert.Equal(t, []string{"25"}, gotQuery["page_size"])
	assert.Equal(t, []string{"-retail_price"}, gotQuery["ordering"])
	assert.Equal(t, []string{"aleph"}, gotQuery["search"])
	assert.Equal(t, []string{"true"}, gotQuery["title_only"])
	assert.Equal(t, []string{"Cuentos"}, gotQuery["genre"])
	assert.Equal(t, "Bearer token-de-prueba", gotAuth)

	assert.Equal(t, 31, res.Count)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "El Aleph", res.Rows[0].Title)
	assert.Equal(t, "Jorge Luis Borges", res.Rows[0].Author, "los autores se aplanan a texto")
}

func TestList_SinBusquedaNoViajaElAmbito(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "count": 0})
	})

	_, err := api.NewVendorList(c).List(context.Background(), listquery.Query{Page: 1, PageSize: 10, SearchScope: "name_only"})

	require.NoError(t, err)
	assert.NotContains(t, gotQuery, "search")
	assert.NotContains(t, gotQuery, "name_only", "el parámetro de ámbito solo acompaña a una búsqueda con texto")
}

func TestFetchDocument_NoEncontrado(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []string{"orden de compra no encontrada"}})
	})

	_, _, err := api.NewPurchaseOrdersAPI(c).FetchDocument(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFetchDocument_ConvierteLineas(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/purchase_orders/41", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": 41, "date": "2026-03-14", "vendor_id": 1, "vendor_name": "Distribuidora Andina",
			"is_deletable": true,
			"purchases": []map[string]any{
				{"id": 7, "book": 1, "book_title": "El Aleph", "book_isbn": "9780307950939", "quantity": 2, "unit_wholesale_price": "6.00"},
			},
		})
	})

	doc, items, err := api.NewPurchaseOrdersAPI(c).FetchDocument(context.Background(), "41")

	require.NoError(t, err)
	assert.Equal(t, "41", doc.ID)
	assert.Equal(t, entity.DocumentPurchaseOrder, doc.Kind)
	assert.Equal(t, "2026-03-14", doc.Date.Format("2006-01-02"))
	assert.True(t, doc.IsDeletable)
	require.Len(t, items, 1)
	assert.Equal(t, "7", items[0].ID, "las filas persistidas conservan el id del backend como texto")
	assert.False(t, items[0].IsNewRow)
	assert.Equal(t, "El Aleph (9780307950939)", items[0].BookTitle)
}

func TestAddDocument_OmiteIDDeFilasNuevas(t *testing.T) {
	var gotBody map[string]any
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
	})

	doc := entity.Document{Kind: entity.DocumentSale, Date: time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)}
	items := []entity.LineItem{
		{ID: "uuid-cliente", IsNewRow: true, BookID: 1, Quantity: 2},
		{ID: "7", IsNewRow: false, BookID: 4, Quantity: 1},
	}
	require.NoError(t, api.NewSalesAPI(c).AddDocument(context.Background(), doc, items))

	sales, ok := gotBody["sales"].([]any)
	require.True(t, ok)
	require.Len(t, sales, 2)
	first := sales[0].(map[string]any)
	second := sales[1].(map[string]any)
	assert.NotContains(t, first, "id", "la fila nueva viaja sin id para que el backend la inserte")
	assert.Equal(t, float64(7), second["id"], "la fila persistida conserva su id entero")
}

func TestModifyDocument_RechazoDelBackend(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []string{"stock insuficiente para Rayuela"}})
	})

	doc := entity.Document{ID: "9", Kind: entity.DocumentSale, Date: time.Now()}
	err := api.NewSalesAPI(c).ModifyDocument(context.Background(), doc, nil)

	var rejected *ports.SubmitRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []string{"stock insuficiente para Rayuela"}, rejected.Errors)
}

func TestImportCSV_RechazoEstructural(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"errors": []string{"quantity column missing"}})
	})

	_, err := api.NewSalesAPI(c).ImportCSV(context.Background(), strings.NewReader("x"), "ventas.csv", "")

	var rejected *ports.ImportRejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, []string{"quantity column missing"}, rejected.Errors)
}

func TestImportCSV_MultipartConProveedor(t *testing.T) {
	var gotVendor, gotFilename, gotContent string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotVendor = r.FormValue("vendor")
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		raw, err := io.ReadAll(file)
		require.NoError(t, err)
		gotContent = string(raw)
		_ = json.NewEncoder(w).Encode(map[string]any{"buybacks": []any{}})
	})

	res, err := api.NewBuybacksAPI(c).ImportCSV(context.Background(),
		strings.NewReader("isbn_13,quantity,unit_buyback_price\n"), "recompras.csv", "2")

	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, "2", gotVendor, "el proveedor viaja como campo de formulario")
	assert.Equal(t, "recompras.csv", gotFilename)
	assert.Contains(t, gotContent, "unit_buyback_price")
}

func TestImportCSV_CeldasMalformadasDegradanACero(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		// el backend devuelve la celda cruda para filas anotadas
		_, _ = w.Write([]byte(`{"sales":[{"book":1,"book_title":"El Aleph","isbn_13":"9780307950939","quantity":"dos","unit_retail_price":"caro","errors":{"quantity":"not_an_int","unit_retail_price":"not_a_number"}}]}`))
	})

	res, err := api.NewSalesAPI(c).ImportCSV(context.Background(), strings.NewReader("x"), "ventas.csv", "")

	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(0), res.Rows[0].Quantity, "una celda no numérica no aborta la decodificación")
	assert.True(t, res.Rows[0].Price.IsZero())
	assert.Equal(t, "not_an_int", res.Rows[0].Errors["quantity"])
}

func TestBestBuybackPrice(t *testing.T) {
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/vendors/bestbuybackprice", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("bookid"))
		assert.Equal(t, "2", r.URL.Query().Get("vendor_id"))
		_, _ = w.Write([]byte("4.10"))
	})

	price, err := api.NewVendorPriceAPI(c).BestBuybackPrice(context.Background(), 1, 2)

	require.NoError(t, err)
	assert.Equal(t, "4.1", price.String())
}

func TestCatalog_SinPaginacion(t *testing.T) {
	var gotQuery map[string][]string
	c, _ := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}, "count": 0})
	})

	vendorID := int64(2)
	_, err := api.NewCatalogAPI(c).AllBooks(context.Background(), &vendorID)

	require.NoError(t, err)
	assert.Equal(t, []string{"true"}, gotQuery["no_pagination"])
	assert.Equal(t, []string{"2"}, gotQuery["vendor"])
	assert.NotContains(t, gotQuery, "page")
}
