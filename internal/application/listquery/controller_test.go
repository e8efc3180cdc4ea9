package listquery_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/libreria-client/internal/application/listquery"
)

type row struct{ ID int }

// fakeQuerier registra cada consulta emitida y devuelve respuestas fijas.
// onList permite inyectar una mutación reentrante durante una consulta en
// vuelo, para simular la carrera entre consultas.
type fakeQuerier struct {
	queries []listquery.Query
	results []listquery.Result[row]
	onList  func(call int)
}

func (f *fakeQuerier) List(_ context.Context, q listquery.Query) (listquery.Result[row], error) {
	call := len(f.queries)
	f.queries = append(f.queries, q)
	if f.onList != nil {
		f.onList(call)
	}
	if call < len(f.results) {
		return f.results[call], nil
	}
	return listquery.Result[row]{}, nil
}

func salesFields() listquery.SortFieldMap {
	return listquery.SortFieldMap{
		"uniqueBooks":  "num_unique_books",
		"totalRevenue": "total_revenue",
	}
}

func bookScopes() []listquery.SearchScope {
	return []listquery.SearchScope{
		{Field: "title", Param: "title_only"},
		{Field: "publisher", Param: "publisher_only"},
		{Field: "author", Param: "author_only"},
		{Field: "isbn13", Param: "isbn_only"},
	}
}

func TestSetSort_TraduceYLuegoAplicaSigno(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, salesFields(), nil, nil)

	require.NoError(t, ctl.SetSort(context.Background(), "uniqueBooks", listquery.SortDescending))

	require.Len(t, q.queries, 1)
	assert.Equal(t, "-num_unique_books", q.queries[0].Ordering,
		"el campo se traduce primero y el prefijo descendente se aplica al nombre externo")
}

func TestSetSort_Ascendente(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, salesFields(), nil, nil)

	require.NoError(t, ctl.SetSort(context.Background(), "totalRevenue", listquery.SortAscending))
	assert.Equal(t, "total_revenue", q.queries[0].Ordering)
}

func TestSetSort_CampoNoOrdenable(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, salesFields(), nil, nil)

	require.NoError(t, ctl.SetSort(context.Background(), "inexistente", listquery.SortAscending))
	assert.Empty(t, q.queries[0].Ordering, "un campo sin traducción no emite ordering")
}

func TestSetPage_ProtocoloBaseUno(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, nil, nil, nil)

	require.NoError(t, ctl.SetPage(context.Background(), 2))

	assert.Equal(t, 3, q.queries[0].Page, "página interna base 0, protocolo base 1")
	assert.Equal(t, 2, ctl.State().Page, "el +1 nunca se filtra al estado interno")
}

func TestSetPageSize_VuelveAPaginaCero(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, nil, nil, nil)
	require.NoError(t, ctl.SetPage(context.Background(), 4))

	require.NoError(t, ctl.SetPageSize(context.Background(), 25))

	last := q.queries[len(q.queries)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, 25, last.PageSize)
	assert.Equal(t, 0, ctl.State().Page)
}

func TestSetFilter_VuelveAPaginaCero(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, nil, nil, nil)
	require.NoError(t, ctl.SetPage(context.Background(), 4))

	require.NoError(t, ctl.SetFilter(context.Background(), "genre", "Ficción"))

	last := q.queries[len(q.queries)-1]
	assert.Equal(t, 1, last.Page)
	assert.Equal(t, "Ficción", last.Filters["genre"])
}

// TestBuildQuery_AmbitoUnicoDeBusqueda: con texto en varios ámbitos gana el
// primero según la precedencia fija y los demás se ignoran.
func TestBuildQuery_AmbitoUnicoDeBusqueda(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, nil, bookScopes(), nil)

	require.NoError(t, ctl.SetFilter(context.Background(), "author", "garcía"))
	require.NoError(t, ctl.SetFilter(context.Background(), "publisher", "vintage"))

	built := ctl.BuildQuery()
	assert.Equal(t, "vintage", built.Search, "publisher precede a author")
	assert.Equal(t, "publisher_only", built.SearchScope)
	assert.NotContains(t, built.Filters, "author", "el ámbito perdedor no viaja como filtro directo")
}

func TestBuildQuery_FiltroDirectoPasaConSuNombre(t *testing.T) {
	q := &fakeQuerier{}
	ctl := listquery.NewController[row](q, nil, bookScopes(), nil)

	require.NoError(t, ctl.SetFilter(context.Background(), "genre", "Cuentos"))

	built := ctl.BuildQuery()
	assert.Empty(t, built.Search)
	assert.Equal(t, "Cuentos", built.Filters["genre"])
}

func TestRefresh_ReemplazaFilasYConteoJuntos(t *testing.T) {
	q := &fakeQuerier{results: []listquery.Result[row]{
		{Rows: []row{{1}, {2}}, Count: 17},
	}}
	ctl := listquery.NewController[row](q, nil, nil, nil)

	require.NoError(t, ctl.Refresh(context.Background()))

	assert.Len(t, ctl.Rows(), 2)
	assert.Equal(t, 17, ctl.Count())
	assert.False(t, ctl.Loading())
}

// TestQuery_RespuestaSuperadaSeDescarta: una mutación emitida mientras otra
// consulta sigue en vuelo invalida la respuesta vieja; el estado visible queda
// con el resultado de la consulta más nueva.
func TestQuery_RespuestaSuperadaSeDescarta(t *testing.T) {
	q := &fakeQuerier{results: []listquery.Result[row]{
		{Rows: []row{{ID: 100}}, Count: 100}, // respuesta vieja (página 1)
		{Rows: []row{{ID: 200}}, Count: 200}, // respuesta nueva (página 2)
	}}
	ctl := listquery.NewController[row](q, nil, nil, nil)

	q.onList = func(call int) {
		if call == 0 {
			// Mutación reentrante: llega un cambio de página antes de que la
			// primera respuesta se aplique.
			q.onList = nil
			require.NoError(t, ctl.SetPage(context.Background(), 1))
		}
	}
	require.NoError(t, ctl.Refresh(context.Background()))

	require.Len(t, ctl.Rows(), 1)
	assert.Equal(t, 200, ctl.Rows()[0].ID, "la respuesta superada no debe pisar a la más nueva")
	assert.Equal(t, 200, ctl.Count())
}
