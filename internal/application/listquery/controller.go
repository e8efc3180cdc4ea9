// Package listquery implementa el controlador genérico de listados: traduce
// acciones de orden, filtro y paginación en exactamente una consulta remota
// por mutación, y reconcilia la respuesta (filas + conteo) de forma atómica.
package listquery

import (
	"context"

	"github.com/invorya/libreria-client/pkg/logger"
)

// SortOrder sentido del ordenamiento.
type SortOrder int

const (
	SortNone SortOrder = iota
	SortAscending
	SortDescending
)

// SortFieldMap mapa inmutable de campo interno → campo del protocolo de
// consulta. Se inyecta en la construcción del controlador; nunca es estado
// ambiental compartido.
type SortFieldMap map[string]string

// Translate devuelve el nombre externo del campo, o cadena vacía si el campo
// interno no es ordenable para la entidad.
func (m SortFieldMap) Translate(internal string) string {
	return m[internal]
}

// SearchScope un filtro de texto libre y el parámetro booleano que lo activa
// en el protocolo (ej. campo "title" → parámetro "title_only").
type SearchScope struct {
	Field string
	Param string
}

// Query consulta lista para el transporte. Page ya viene en base 1.
type Query struct {
	Page         int
	PageSize     int
	NoPagination bool
	Ordering     string
	Search       string
	SearchScope  string            // nombre del parámetro *_only a activar; vacío = sin búsqueda
	Filters      map[string]string // filtros de paso directo (genre, vendor)
}

// Result filas y conteo total que reemplazan juntos el estado visible.
type Result[T any] struct {
	Rows  []T
	Count int
}

// Querier ejecuta la consulta remota de listado para una entidad.
type Querier[T any] interface {
	List(ctx context.Context, q Query) (Result[T], error)
}

// State estado propio del controlador. Page es base 0; el +1 del protocolo se
// aplica al emitir la consulta y nunca se filtra hacia este estado.
type State struct {
	Page      int
	PageSize  int
	SortField string
	SortOrder SortOrder
	Filters   map[string]string
}

// DefaultPageSize filas por página inicial de todos los listados.
const DefaultPageSize = 10

// Controller máquina de estados reutilizable de un listado. Una instancia por
// lista; las filas y el conteo pertenecen en exclusiva a su instancia.
// Modelo monohilo: las mutaciones se aplican una a la vez.
type Controller[T any] struct {
	querier Querier[T]
	fields  SortFieldMap
	scopes  []SearchScope // orden de precedencia para búsqueda de ámbito único
	log     *logger.Logger

	state      State
	generation uint64 // descarta respuestas de consultas superadas
	rows       []T
	count      int
	loading    bool
}

// NewController construye el controlador con los valores por defecto de la
// entidad: página 0, tamaño 10, sin orden ni filtros.
func NewController[T any](querier Querier[T], fields SortFieldMap, scopes []SearchScope, log *logger.Logger) *Controller[T] {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller[T]{
		querier: querier,
		fields:  fields,
		scopes:  scopes,
		log:     log,
		state: State{
			PageSize: DefaultPageSize,
			Filters:  map[string]string{},
		},
	}
}

// SetSort aplica un ordenamiento y emite la consulta.
func (c *Controller[T]) SetSort(ctx context.Context, field string, order SortOrder) error {
	c.log.Debug().Str("field", field).Int("order", int(order)).Msg("orden aplicado")
	c.state.SortField = field
	c.state.SortOrder = order
	return c.query(ctx)
}

// SetPage cambia de página y emite la consulta.
func (c *Controller[T]) SetPage(ctx context.Context, page int) error {
	if page < 0 {
		page = 0
	}
	c.log.Debug().Int("page", page).Msg("página aplicada")
	c.state.Page = page
	return c.query(ctx)
}

// SetPageSize cambia las filas por página. Siempre vuelve a la página 0: el
// backend no garantiza manejar una página fuera de rango tras el cambio.
func (c *Controller[T]) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		size = DefaultPageSize
	}
	c.log.Debug().Int("page_size", size).Msg("tamaño de página aplicado")
	c.state.PageSize = size
	c.state.Page = 0
	return c.query(ctx)
}

// SetFilter aplica un filtro y emite la consulta. Filtrar vuelve a la página 0.
func (c *Controller[T]) SetFilter(ctx context.Context, field, value string) error {
	c.log.Debug().Str("field", field).Str("value", value).Msg("filtro aplicado")
	if value == "" {
		delete(c.state.Filters, field)
	} else {
		c.state.Filters[field] = value
	}
	c.state.Page = 0
	return c.query(ctx)
}

// Refresh vuelve a emitir la consulta con el estado vigente.
func (c *Controller[T]) Refresh(ctx context.Context) error {
	return c.query(ctx)
}

// Rows devuelve las filas visibles.
func (c *Controller[T]) Rows() []T { return c.rows }

// Count devuelve el conteo total reportado por el backend.
func (c *Controller[T]) Count() int { return c.count }

// State devuelve una copia del estado del controlador.
func (c *Controller[T]) State() State {
	st := c.state
	st.Filters = make(map[string]string, len(c.state.Filters))
	for k, v := range c.state.Filters {
		st.Filters[k] = v
	}
	return st
}

// Loading indica si hay una consulta en vuelo.
func (c *Controller[T]) Loading() bool { return c.loading }

// BuildQuery arma la consulta de red a partir del estado actual.
func (c *Controller[T]) BuildQuery() Query {
	q := Query{
		Page:     c.state.Page + 1, // el protocolo es base 1
		PageSize: c.state.PageSize,
		Ordering: c.ordering(),
		Filters:  map[string]string{},
	}

	// Solo un ámbito de búsqueda de texto libre a la vez: el primero no vacío
	// según la precedencia fija gana y los demás se ignoran (el parámetro
	// search del protocolo admite un único ámbito).
	scoped := make(map[string]bool, len(c.scopes))
	for _, s := range c.scopes {
		scoped[s.Field] = true
		if q.SearchScope == "" {
			if v := c.state.Filters[s.Field]; v != "" {
				q.Search = v
				q.SearchScope = s.Param
			}
		}
	}

	// El resto de filtros pasa directo con su nombre de campo.
	for field, value := range c.state.Filters {
		if !scoped[field] {
			q.Filters[field] = value
		}
	}
	return q
}

// ordering devuelve el campo externo ya traducido, con prefijo "-" para orden
// descendente. La traducción ocurre antes de aplicar el signo.
func (c *Controller[T]) ordering() string {
	if c.state.SortOrder == SortNone {
		return ""
	}
	field := c.fields.Translate(c.state.SortField)
	if field == "" {
		return ""
	}
	if c.state.SortOrder == SortDescending {
		return "-" + field
	}
	return field
}

// query emite la consulta y aplica el resultado. El contador de generación
// descarta la respuesta de una consulta superada por otra más nueva: nunca se
// pisa un resultado fresco con uno viejo.
func (c *Controller[T]) query(ctx context.Context) error {
	c.generation++
	gen := c.generation
	c.loading = true

	res, err := c.querier.List(ctx, c.BuildQuery())

	if gen != c.generation {
		c.log.Debug().Uint64("generation", gen).Msg("respuesta de consulta superada, descartada")
		return nil
	}
	c.loading = false
	if err != nil {
		return err
	}

	// Filas y conteo se reemplazan juntos; no hay fusión incremental.
	c.rows = res.Rows
	c.count = res.Count
	return nil
}
