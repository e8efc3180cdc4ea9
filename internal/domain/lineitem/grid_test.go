package lineitem_test

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/domain/lineitem"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestAddRow_IdentidadFresca(t *testing.T) {
	g := lineitem.New()

	r1 := g.AddRow(entity.NewLineItem())
	r2 := g.AddRow(entity.NewLineItem())

	assert.NotEmpty(t, r1.ID)
	assert.NotEqual(t, r1.ID, r2.ID, "cada fila nueva debe recibir identidad propia")
	assert.True(t, r1.IsNewRow)
	assert.Equal(t, int64(1), r1.Quantity, "la fila plantilla arranca con cantidad 1")
	assert.True(t, r1.Price.IsZero(), "la fila plantilla arranca con precio 0")
	assert.Equal(t, 2, g.Len())
}

func TestSetQuantityYPrecio_RecalculaTotal(t *testing.T) {
	g := lineitem.New()
	row := g.AddRow(entity.NewLineItem())

	require.NoError(t, g.SetPrice(row.ID, dec(t, "14.95")))
	require.NoError(t, g.SetQuantity(row.ID, 3))

	assert.True(t, g.Total().Equal(dec(t, "44.85")), "total = precio × cantidad, recalculado en cada mutación")
}

func TestSetBook_EscrituraAtomicaDeLibroYPrecio(t *testing.T) {
	g := lineitem.New()
	row := g.AddRow(entity.NewLineItem())
	require.NoError(t, g.SetQuantity(row.ID, 2))

	require.NoError(t, g.SetBook(row.ID, 7, "9780307474728", "Cien años de soledad", dec(t, "14.95")))

	rows := g.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].BookID)
	assert.Equal(t, "Cien años de soledad", rows[0].BookTitle)
	assert.True(t, g.Total().Equal(dec(t, "29.90")), "el total debe reflejar el precio resuelto del libro nuevo")
}

func TestMutacion_FilaInexistente(t *testing.T) {
	g := lineitem.New()

	assert.ErrorIs(t, g.SetQuantity("no-existe", 1), domain.ErrRowNotFound)
	assert.ErrorIs(t, g.SetPrice("no-existe", decimal.Zero), domain.ErrRowNotFound)
	assert.ErrorIs(t, g.SetBook("no-existe", 1, "", "", decimal.Zero), domain.ErrRowNotFound)
}

// TestDelete_DevuelveColeccionPosterior cubre la regresión clásica: recalcular
// estado derivado sobre la colección previa al borrado duplica la fila borrada.
func TestDelete_DevuelveColeccionPosterior(t *testing.T) {
	g := lineitem.New()
	a := g.AddRow(entity.NewLineItem())
	b := g.AddRow(entity.NewLineItem())
	require.NoError(t, g.SetPrice(a.ID, dec(t, "10")))
	require.NoError(t, g.SetPrice(b.ID, dec(t, "5")))

	remaining := g.Delete(a.ID)

	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].ID, "la colección devuelta no debe contener la fila borrada")
	assert.True(t, g.Total().Equal(dec(t, "5")), "el total se recalcula desde las filas restantes")
}

func TestDelete_FilaInexistenteNoAltera(t *testing.T) {
	g := lineitem.New()
	row := g.AddRow(entity.NewLineItem())
	require.NoError(t, g.SetPrice(row.ID, dec(t, "3")))

	remaining := g.Delete("no-existe")

	assert.Len(t, remaining, 1)
	assert.True(t, g.Total().Equal(dec(t, "3")))
}

func TestReplaceAll_ReemplazoAtomico(t *testing.T) {
	g := lineitem.New()
	g.AddRow(entity.NewLineItem())
	g.AddRow(entity.NewLineItem())

	imported := []entity.LineItem{
		{ID: "i1", IsNewRow: true, Quantity: 2, Price: dec(t, "4.50")},
		{ID: "i2", IsNewRow: true, Quantity: 1, Price: dec(t, "1.00")},
	}
	g.ReplaceAll(imported)

	assert.Equal(t, 2, g.Len(), "no hay fusión parcial: las filas previas se descartan completas")
	assert.True(t, g.Total().Equal(dec(t, "10.00")))
}

func TestHasImportErrors(t *testing.T) {
	g := lineitem.New()
	g.ReplaceAll([]entity.LineItem{
		{ID: "a", Quantity: 1, Price: decimal.Zero},
		{ID: "b", Quantity: 1, Price: decimal.Zero, CSVErrors: map[string]string{"quantity": "negative"}},
	})
	assert.True(t, g.HasImportErrors())

	g.ReplaceAll([]entity.LineItem{{ID: "a", Quantity: 1, Price: decimal.Zero}})
	assert.False(t, g.HasImportErrors())
}

// TestTotal_PropiedadAnteMutacionesAleatorias somete la grilla a una secuencia
// aleatoria de mutaciones y verifica que el total coincide siempre con la suma
// ingenua de subtotales.
func TestTotal_PropiedadAnteMutacionesAleatorias(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := lineitem.New()
	var ids []string

	for i := 0; i < 500; i++ {
		switch op := rng.Intn(4); {
		case op == 0 || len(ids) == 0:
			row := g.AddRow(entity.NewLineItem())
			ids = append(ids, row.ID)
		case op == 1:
			id := ids[rng.Intn(len(ids))]
			_ = g.SetQuantity(id, int64(rng.Intn(20)))
		case op == 2:
			id := ids[rng.Intn(len(ids))]
			_ = g.SetPrice(id, decimal.NewFromInt(int64(rng.Intn(100))).Div(decimal.NewFromInt(4)))
		default:
			idx := rng.Intn(len(ids))
			g.Delete(ids[idx])
			ids = append(ids[:idx], ids[idx+1:]...)
		}

		want := decimal.Zero
		for _, row := range g.Rows() {
			want = want.Add(row.Subtotal())
		}
		require.True(t, g.Total().Equal(want),
			"iteración %d: total %s ≠ suma de subtotales %s", i, g.Total(), want)
	}
}
