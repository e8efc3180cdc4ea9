package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/invorya/libreria-client/internal/application/document"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/infrastructure/api"
	"github.com/invorya/libreria-client/pkg/logger"
)

var detailCmd = &cobra.Command{
	Use:   "detail <purchases|sales|buybacks> <id>",
	Short: "Muestra un documento con sus líneas y el total calculado",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		kind, docAPI, err := documentBackend(args[0], client, log)
		if err != nil {
			return err
		}
		ed := document.NewEditor(kind, docAPI, api.NewCatalogAPI(client), document.PurchasePriceResolver{}, log)
		if err := ed.Load(ctx, args[1]); err != nil {
			return err
		}

		doc := ed.Document()
		printer.Printf("%s %s  fecha %s", kindLabel(kind), doc.ID, doc.Date.Format("2006-01-02"))
		if doc.RequiresVendor() {
			printer.Printf("  proveedor %s", doc.VendorName)
		}
		printer.Println()
		for _, row := range ed.Grid().Rows() {
			printer.Printf("  %-44.44s ×%-4d $%s = $%s\n",
				row.BookTitle, row.Quantity, row.Price.StringFixed(2), row.Subtotal().StringFixed(2))
		}
		printer.Printf("Total: $%s (%d líneas)\n", ed.Grid().Total().StringFixed(2), ed.Grid().Len())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(detailCmd)
}

// documentBackend resuelve el adaptador de documentos según el tipo pedido.
func documentBackend(name string, c *api.Client, _ *logger.Logger) (entity.DocumentKind, ports.DocumentAPI, error) {
	switch name {
	case "purchases":
		return entity.DocumentPurchaseOrder, api.NewPurchaseOrdersAPI(c), nil
	case "sales":
		return entity.DocumentSale, api.NewSalesAPI(c), nil
	case "buybacks":
		return entity.DocumentBuyback, api.NewBuybacksAPI(c), nil
	default:
		return "", nil, fmt.Errorf("tipo de documento desconocido: %s", name)
	}
}

func kindLabel(kind entity.DocumentKind) string {
	switch kind {
	case entity.DocumentPurchaseOrder:
		return "Orden de compra"
	case entity.DocumentSale:
		return "Conciliación de venta"
	default:
		return "Recompra"
	}
}
