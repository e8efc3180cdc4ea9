package cli

import (
	"github.com/spf13/cobra"

	mock "github.com/invorya/libreria-client/internal/interfaces/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Levanta el servidor de desarrollo (backend de librería en memoria)",
	Long: `Arranca un backend de librería en memoria con el mismo protocolo que el
servicio real: catálogo sembrado, listados paginados, documentos e importación
CSV. Pensado para desarrollo local del cliente.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, _ := mock.NewApp()
		log.Info().Str("addr", cfg.Mock.Addr()).Msg("servidor de desarrollo escuchando")
		return app.Listen(cfg.Mock.Addr())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
