// Package csvpipeline implementa la tubería de importación de archivos
// tabulares: subida del archivo, clasificación de rechazos en dos niveles
// (documento y fila) y reemplazo atómico de la grilla ante una importación
// aceptada.
package csvpipeline

import (
	"context"
	"errors"
	"io"

	"github.com/invorya/libreria-client/internal/application/dto"
	"github.com/invorya/libreria-client/internal/application/ports"
	"github.com/invorya/libreria-client/internal/domain"
	"github.com/invorya/libreria-client/internal/domain/csvimport"
	"github.com/invorya/libreria-client/internal/domain/entity"
	"github.com/invorya/libreria-client/internal/domain/lineitem"
	"github.com/invorya/libreria-client/pkg/logger"
)

// Status estado observable de la tubería.
type Status string

const (
	StatusIdle                 Status = "idle"
	StatusUploading            Status = "uploading"
	StatusImportedClean        Status = "imported_clean"
	StatusImportedWithWarnings Status = "imported_with_warnings"
	StatusRejected             Status = "rejected"
)

// Outcome resultado de una importación, listo para notificar: los errores de
// documento clasificados (rechazo) o los avisos de columnas extra (aceptada).
type Outcome struct {
	Status      Status
	BatchErrors []csvimport.BatchError
	Warnings    []string
}

// Pipeline conduce una importación por vez contra una grilla destino.
// Modelo monohilo: el guardián inFlight rechaza una segunda subida mientras la
// primera sigue en curso, no sincroniza accesos concurrentes.
type Pipeline struct {
	kind           entity.DocumentKind
	importer       ports.CSVImporter
	grid           *lineitem.Grid
	status         Status
	inFlight       bool
	hasUploadedCSV bool
	log            *logger.Logger
}

// New crea la tubería para el tipo de documento y la grilla destino dados.
func New(kind entity.DocumentKind, importer ports.CSVImporter, grid *lineitem.Grid, log *logger.Logger) *Pipeline {
	if log == nil {
		log = logger.Nop()
	}
	return &Pipeline{kind: kind, importer: importer, grid: grid, status: StatusIdle, log: log}
}

// Status devuelve el estado vigente.
func (p *Pipeline) Status() Status {
	return p.status
}

// HasUploadedCSV indica si la grilla vigente proviene de una importación.
func (p *Pipeline) HasUploadedCSV() bool {
	return p.hasUploadedCSV
}

// Import sube el archivo y aplica el resultado. Recompras exigen proveedor
// (vendorID). Ante un rechazo estructural la grilla queda intacta y cada
// mensaje vuelve clasificado; ante una importación aceptada las filas
// reemplazan la grilla completa, con identidad fresca y anotaciones por celda.
func (p *Pipeline) Import(ctx context.Context, file io.Reader, filename, vendorID string) (Outcome, error) {
	if p.inFlight {
		return Outcome{Status: p.status}, domain.ErrImportInFlight
	}
	if p.kind == entity.DocumentBuyback && vendorID == "" {
		return Outcome{Status: p.status}, domain.ErrMissingVendor
	}
	p.inFlight = true
	p.status = StatusUploading
	defer func() { p.inFlight = false }()

	result, err := p.importer.ImportCSV(ctx, file, filename, vendorID)
	if err != nil {
		var rejected *ports.ImportRejectedError
		if errors.As(err, &rejected) {
			p.status = StatusRejected
			p.log.Warn().Str("file", filename).Int("errores", len(rejected.Errors)).
				Msg("importación rechazada por el servidor")
			return Outcome{
				Status:      StatusRejected,
				BatchErrors: classifyAll(rejected.Errors),
			}, domain.ErrImportRejected
		}
		p.status = StatusIdle
		return Outcome{Status: StatusIdle}, err
	}

	p.apply(result)
	outcome := Outcome{Status: p.status, Warnings: extraColumnWarnings(result.Errors)}
	p.log.Info().Str("file", filename).Int("filas", len(result.Rows)).
		Int("avisos", len(result.Errors)).Msg("importación aplicada")
	return outcome, nil
}

// apply instala las filas importadas: reemplazo atómico, nunca fusión con las
// filas previas.
func (p *Pipeline) apply(result *dto.CSVImportResult) {
	p.grid.ReplaceAll(dto.ImportedRowsToLineItems(result.Rows))
	p.hasUploadedCSV = true
	if p.grid.HasImportErrors() {
		p.status = StatusImportedWithWarnings
	} else {
		p.status = StatusImportedClean
	}
}

// extraColumnWarnings arma el aviso visible de cada columna ignorada: el
// backend devuelve solo los nombres de columna.
func extraColumnWarnings(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		out = append(out, csvimport.ExtraColumnWarning(col))
	}
	return out
}

func classifyAll(msgs []string) []csvimport.BatchError {
	out := make([]csvimport.BatchError, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, csvimport.ClassifyBatchError(m))
	}
	return out
}
