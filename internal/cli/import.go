package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/invorya/libreria-client/internal/application/csvpipeline"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/csvimport"
	"github.com/invorya/libreria-client/internal/domain/lineitem"
	"github.com/invorya/libreria-client/internal/infrastructure/excel"
)

var importVendor string

var importCmd = &cobra.Command{
	Use:   "import <purchases|sales|buybacks> <archivo.csv|archivo.xlsx>",
	Short: "Importa un archivo tabular y muestra las filas con sus anotaciones",
	Long: `Sube un CSV (o la primera hoja de un XLSX) al endpoint de importación del
tipo de documento indicado. Un rechazo estructural lista las causas; una
importación aceptada muestra cada fila con sus anotaciones por columna.
Las recompras exigen --vendor.`,
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

		grid := lineitem.New()
		pipe := csvpipeline.New(kind, importer, grid, log)
		outcome, err := pipe.Import(ctx, file, filename, importVendor)
		switch {
		case errors.Is(err, domain.ErrImportRejected):
			printer.Println("Importación rechazada:")
			for _, be := range outcome.BatchErrors {
				printer.Printf("  ✖ %s\n", be.Message)
			}
			return err
		case err != nil:
			return err
		}

		for _, w := range outcome.Warnings {
			printer.Printf("  ⚠ %s\n", w)
		}
		for _, row := range grid.Rows() {
			printer.Printf("%-44.44s ×%-4d $%s\n", row.BookTitle, row.Quantity, row.Price.StringFixed(2))
			for _, tag := range csvimport.ClassifyRowErrors(row.CSVErrors) {
				printer.Printf("    [%s] %s: %s\n", tag.Severity, tag.Field, tag.Label)
			}
		}
		printer.Printf("Total provisorio: $%s (%d filas, estado %s)\n",
			grid.Total().StringFixed(2), grid.Len(), pipe.Status())
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importVendor, "vendor", "", "id del proveedor (obligatorio en recompras)")
	rootCmd.AddCommand(importCmd)
}
