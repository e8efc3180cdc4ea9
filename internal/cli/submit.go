package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/invorya/libreria-client/internal/application/csvpipeline"
	"github.com/invorya/libreria-client/internal/application/document"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/infrastructure/api"
	"github.com/invorya/libreria-client/internal/infrastructure/excel"
)

var (
	submitDate   string
	submitVendor int64
)

var submitCmd = &cobra.Command{
	Use:   "submit <purchases|sales|buybacks> <archivo.csv|archivo.xlsx>",
	Short: "Importa un archivo tabular y envía el documento resultante",
	Long: `Sube el archivo al endpoint de importación y, si todas las filas quedan
limpias, crea el documento con la fecha indicada. Un archivo con errores de
fila se muestra anotado y no se envía.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 60*time.Second)
		defer cancel()

		kind, docAPI, err := documentBackend(args[0], client, log)
		if err != nil {
			return err
		}
		importer, ok := docAPI.(ports.CSVImporter)
		if !ok {
			return errors.New("el tipo de documento no admite importación")
		}
		date, err := time.Parse("2006-01-02", submitDate)
		if err != nil {
			return fmt.Errorf("fecha inválida %q (formato 2006-01-02): %w", submitDate, err)
		}

		f, err := os.Open(args[1])
		if err != nil {
			return err
		}
		defer f.Close()

		var file io.Reader = f
		filename := args[1]
		if excel.IsWorkbook(filename) {
			file, err = excel.ToCSV(f)
			if err != nil {
				return err
			}
			filename += ".csv"
		}

		resolver := resolverFor(kind, submitVendor)
		ed := document.NewEditor(kind, docAPI, api.NewCatalogAPI(client), resolver, log)
		if err := ed.SetDate(date); err != nil {
			return err
		}
		if ed.Document().RequiresVendor() {
			if err := ed.SetVendor(submitVendor, ""); err != nil {
				return err
			}
		}

		pipe := csvpipeline.New(kind, importer, ed.Grid(), log)
		vendorField := ""
		if submitVendor != 0 {
			vendorField = fmt.Sprint(submitVendor)
		}
		outcome, err := pipe.Import(ctx, file, filename, vendorField)
		if errors.Is(err, domain.ErrImportRejected) {
			printer.Println("Importación rechazada:")
			for _, be := range outcome.BatchErrors {
				printer.Printf("  ✖ %s\n", be.Message)
			}
			return err
		}
		if err != nil {
			return err
		}
		if ed.Grid().HasImportErrors() {
			printer.Println("El archivo tiene filas con errores; corregir y reintentar:")
			for _, row := range ed.Grid().Rows() {
				for col, code := range row.CSVErrors {
					printer.Printf("  %s %s: %s\n", row.BookISBN, col, code)
				}
			}
			return domain.ErrInvalidInput
		}

		if err := ed.Submit(ctx); err != nil {
			var rej *ports.SubmitRejectedError
			if errors.As(err, &rej) {
				printer.Println("El servidor rechazó el documento:")
				for _, msg := range rej.Errors {
					printer.Printf("  ✖ %s\n", msg)
				}
			}
			return err
		}
		printer.Printf("%s enviado: %d filas, total $%s\n",
			kindLabel(kind), ed.Grid().Len(), ed.Grid().Total().StringFixed(2))
		return nil
	},
}

// resolverFor elige el resolutor de precios del tipo de documento.
func resolverFor(kind entity.DocumentKind, vendorID int64) ports.PriceResolver {
	switch kind {
	case entity.DocumentSale:
		return document.SalePriceResolver{}
	case entity.DocumentBuyback:
		return document.NewBuybackPriceResolver(api.NewVendorPriceAPI(client), vendorID, log)
	default:
		return document.PurchasePriceResolver{}
	}
}

func init() {
	submitCmd.Flags().StringVar(&submitDate, "date", time.Now().Format("2006-01-02"), "fecha del documento")
	submitCmd.Flags().Int64Var(&submitVendor, "vendor", 0, "id del proveedor (compras y recompras)")
	rootCmd.AddCommand(submitCmd)
}
