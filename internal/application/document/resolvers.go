package document

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/pkg/logger"
)

// Resolutores de precio por tipo de documento, detrás de la interfaz uniforme
// ports.PriceResolver.

// Verificación en tiempo de compilación.
var (
	_ ports.PriceResolver = (*SalePriceResolver)(nil)
	_ ports.PriceResolver = (*PurchasePriceResolver)(nil)
	_ ports.PriceResolver = (*BuybackPriceResolver)(nil)
)

// SalePriceResolver para ventas el precio es el precio de venta del catálogo
// ya cargado: una búsqueda pura, síncrona en efecto.
type SalePriceResolver struct{}

// ResolvePrice devuelve el precio de venta del libro.
func (SalePriceResolver) ResolvePrice(_ context.Context, book entity.Book) (decimal.Decimal, error) {
	return book.RetailPrice, nil
}

// PurchasePriceResolver para compras no hay resolución: el precio mayorista no
// se conoce de antemano y lo ingresa el usuario. La fila arranca en 0.
type PurchasePriceResolver struct{}

// ResolvePrice devuelve siempre cero.
func (PurchasePriceResolver) ResolvePrice(_ context.Context, _ entity.Book) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

// BuybackPriceResolver para recompras el precio depende del proveedor y se
// consulta al backend. Un fallo remoto degrada a precio 0: la carga de datos
// nunca se bloquea por un fallo de precios.
type BuybackPriceResolver struct {
	api      ports.BuybackPriceAPI
	vendorID int64
	log      *logger.Logger
}

// NewBuybackPriceResolver construye el resolutor para el proveedor del documento.
func NewBuybackPriceResolver(api ports.BuybackPriceAPI, vendorID int64, log *logger.Logger) *BuybackPriceResolver {
	if log == nil {
		log = logger.Nop()
	}
	return &BuybackPriceResolver{api: api, vendorID: vendorID, log: log}
}

// ResolvePrice consulta el mejor precio de recompra (bookid, vendor_id).
func (r *BuybackPriceResolver) ResolvePrice(ctx context.Context, book entity.Book) (decimal.Decimal, error) {
	price, err := r.api.BestBuybackPrice(ctx, book.ID, r.vendorID)
	if err != nil {
		r.log.Warn().Err(err).Int64("book_id", book.ID).Int64("vendor_id", r.vendorID).
			Msg("fallo al resolver precio de recompra, se usa 0")
		return decimal.Zero, nil
	}
	return price, nil
}
