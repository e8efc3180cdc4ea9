package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/libreria-client/internal/application/dto"
	mock "github.com/invorya/libreria-client/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	app, _ := mock.NewApp()
	return app
}

func doGet(t *testing.T, app *fiber.App, target string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func postCSV(t *testing.T, app *fiber.App, target, csv string, fields map[string]string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "import.csv")
	require.NoError(t, err)
	_, err = io.Copy(part, strings.NewReader(csv))
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func postJSON(t *testing.T, app *fiber.App, target string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Listados
// ──────────────────────────────────────────────────────────────────────────────

func TestBooks_PaginacionYConteo(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app, "/books/?page=1&page_size=2")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.ListResponse[dto.APIBook]](t, resp)

	assert.Equal(t, 4, out.Count, "el conteo refleja el total, no la página")
	assert.Len(t, out.Results, 2)

	resp = doGet(t, app, "/books/?page=3&page_size=2")
	out = decode[dto.ListResponse[dto.APIBook]](t, resp)
	assert.Empty(t, out.Results, "una página fuera de rango devuelve vacío con el conteo intacto")
	assert.Equal(t, 4, out.Count)
}

func TestBooks_OrdenDescendente(t *testing.T) {
	app := newTestApp(t)

	out := decode[dto.ListResponse[dto.APIBook]](t, doGet(t, app, "/books/?ordering=-retail_price&no_pagination=true"))

	require.NotEmpty(t, out.Results)
	for i := 1; i < len(out.Results); i++ {
		assert.False(t, out.Results[i-1].RetailPrice.LessThan(out.Results[i].RetailPrice),
			"con prefijo - el orden es descendente")
	}
}

func TestBooks_BusquedaPorAmbito(t *testing.T) {
	app := newTestApp(t)

	// "vintage" aparece como editorial; con ámbito title no debe matchear
	out := decode[dto.ListResponse[dto.APIBook]](t, doGet(t, app, "/books/?search=vintage&title_only=true"))
	assert.Zero(t, out.Count)

	out = decode[dto.ListResponse[dto.APIBook]](t, doGet(t, app, "/books/?search=vintage&publisher_only=true"))
	assert.Equal(t, 2, out.Count)
}

func TestBooks_FiltroPorGenero(t *testing.T) {
	app := newTestApp(t)

	out := decode[dto.ListResponse[dto.APIBook]](t, doGet(t, app, "/books/?genre=Cuentos"))
	require.Equal(t, 1, out.Count)
	assert.Equal(t, "El Aleph", out.Results[0].Title)
}

func TestBooks_CatalogoRestringidoPorProveedor(t *testing.T) {
	app := newTestApp(t)

	out := decode[dto.ListResponse[dto.APIBook]](t, doGet(t, app, "/books/?no_pagination=true&vendor=2"))
	assert.Equal(t, 2, out.Count, "el proveedor 2 solo comercializa dos títulos")
}

func TestBestBuybackPrice(t *testing.T) {
	app := newTestApp(t)

	resp := doGet(t, app, "/vendors/bestbuybackprice?bookid=1&vendor_id=1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	// 14.95 × 30% = 4.49 (redondeado a 2 decimales)
	assert.Equal(t, "4.49", strings.Trim(string(raw), `"`))
}

// ──────────────────────────────────────────────────────────────────────────────
// Documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseOrder_CicloAltaDetalleBorrado(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/purchase_orders/", dto.AddPurchaseOrderRequest{
		Date:   "2026-03-14",
		Vendor: 1,
		Purchases: []dto.APIPurchaseRow{
			{Book: 1, Quantity: 2, UnitWholesalePrice: decimal.RequireFromString("6.00")},
			{Book: 4, Quantity: 1, UnitWholesalePrice: decimal.RequireFromString("5.00")},
			{Book: 1, Quantity: 1, UnitWholesalePrice: decimal.RequireFromString("6.00")},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[dto.APIPurchaseOrder](t, resp)

	assert.Equal(t, int64(4), created.NumBooks)
	assert.Equal(t, int64(2), created.NumUniqueBooks, "los títulos repetidos cuentan una sola vez")
	assert.Equal(t, "23", created.TotalCost.String())
	require.Len(t, created.Purchases, 3)
	require.NotNil(t, created.Purchases[0].ID, "el backend asigna id entero a cada línea")
	assert.Equal(t, "El Aleph", created.Purchases[1].BookTitle)

	resp = doGet(t, app, "/purchase_orders/"+itoa(created.ID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	detail := decode[dto.APIPurchaseOrder](t, resp)
	assert.Equal(t, created.TotalCost.String(), detail.TotalCost.String())

	req := httptest.NewRequest(http.MethodDelete, "/purchase_orders/"+itoa(created.ID), nil)
	delResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)

	resp = doGet(t, app, "/purchase_orders/"+itoa(created.ID))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSalesReconciliation_RechazaVentaSobreStock(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/sales/sales_reconciliation/", dto.AddSalesReconciliationRequest{
		Date:  "2026-03-14",
		Sales: []dto.APISaleRow{{Book: 2, Quantity: 50, UnitRetailPrice: decimal.RequireFromString("16.00")}},
	})

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorsResponse](t, resp)
	require.NotEmpty(t, out.Errors)
	assert.Contains(t, out.Errors[0], "stock insuficiente")
}

func TestAddPurchaseOrder_SinProveedor(t *testing.T) {
	app := newTestApp(t)

	resp := postJSON(t, app, "/purchase_orders/", dto.AddPurchaseOrderRequest{Date: "2026-03-14"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación CSV
// ──────────────────────────────────────────────────────────────────────────────

func TestImportCSV_ColumnaFaltante(t *testing.T) {
	app := newTestApp(t)

	resp := postCSV(t, app, "/sales/sales_reconciliation/csv/import",
		"isbn_13,unit_retail_price\n9780307474728,14.95\n", nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorsResponse](t, resp)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "quantity column missing", out.Errors[0])
}

func TestImportCSV_ArchivoVacio(t *testing.T) {
	app := newTestApp(t)

	resp := postCSV(t, app, "/purchase_orders/csv/import", "", nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorsResponse](t, resp)
	assert.Equal(t, []string{"empty_csv"}, out.Errors)
}

func TestImportCSV_CabecerasDuplicadas(t *testing.T) {
	app := newTestApp(t)

	resp := postCSV(t, app, "/purchase_orders/csv/import",
		"isbn_13,quantity,quantity,unit_wholesale_price\n9780307474728,1,1,6.00\n", nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorsResponse](t, resp)
	assert.Contains(t, out.Errors, "duplicate_valid_headers")
}

func TestImportCSV_FilaMalformada(t *testing.T) {
	app := newTestApp(t)

	resp := postCSV(t, app, "/purchase_orders/csv/import",
		"isbn_13,quantity,unit_wholesale_price\n9780307474728,1,6.00\n9780307950939,1\n", nil)

	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	out := decode[dto.ErrorsResponse](t, resp)
	require.Len(t, out.Errors, 1)
	assert.Equal(t, "Expected 3 fields in line 3, saw 2", out.Errors[0])
}

func TestImportCSV_AnotacionesPorFila(t *testing.T) {
	app := newTestApp(t)

	csv := strings.Join([]string{
		"isbn_13,quantity,unit_retail_price,comentario",
		"9780307474728,2,14.95,ok",        // limpia
		"no-es-isbn,1,5.00,x",             // isbn inválido
		"9781111111111,1,5.00,x",          // no está en catálogo
		"9780525433477,50,16.00,x",        // stock de 3
		"9780307950939,dos,-1,x",          // cantidad no entera, precio negativo
		"9788437604572,,,x",               // valores vacíos
	}, "\n")
	resp := postCSV(t, app, "/sales/sales_reconciliation/csv/import", csv, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode, "los errores de fila no rechazan el documento")
	out := decode[dto.SaleCSVImportResponse](t, resp)
	require.Len(t, out.Sales, 6)

	assert.Nil(t, out.Sales[0].Errors)
	assert.Equal(t, "invalid_isbn", out.Sales[1].Errors["isbn_13"])
	assert.Equal(t, "not_in_db", out.Sales[2].Errors["isbn_13"])
	assert.Equal(t, "insufficient_stock_3", out.Sales[3].Errors["quantity"])
	assert.Equal(t, "not_an_int", out.Sales[4].Errors["quantity"])
	assert.Equal(t, "negative", out.Sales[4].Errors["unit_retail_price"])
	assert.Equal(t, "empty_value", out.Sales[5].Errors["quantity"])
	assert.Equal(t, "empty_value", out.Sales[5].Errors["unit_retail_price"])

	assert.Equal(t, []string{"comentario"}, out.Errors, "las columnas extra se reportan por nombre")
	assert.Equal(t, "Cien años de soledad", out.Sales[0].BookTitle)
}

func TestImportCSV_RecompraExigeProveedor(t *testing.T) {
	app := newTestApp(t)

	resp := postCSV(t, app, "/buybacks/csv/import",
		"isbn_13,quantity,unit_buyback_price\n9780307474728,1,4.00\n", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = postCSV(t, app, "/buybacks/csv/import",
		"isbn_13,quantity,unit_buyback_price\n9788437604572,1,4.00\n",
		map[string]string{"vendor": "1"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[dto.BuybackCSVImportResponse](t, resp)
	require.Len(t, out.Buybacks, 1)
	assert.Equal(t, "book_not_sold_by_vendor", out.Buybacks[0].Errors["isbn_13"],
		"Rayuela no está en el catálogo del proveedor 1")
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
