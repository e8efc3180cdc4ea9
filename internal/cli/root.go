// Package cli define los comandos de la herramienta de línea de comandos:
// listados, detalle de documentos, importación de archivos tabulares y el
// servidor de desarrollo.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/invorya/libreria-client/internal/infrastructure/api"
	"github.com/invorya/libreria-client/pkg/config"
	"github.com/invorya/libreria-client/pkg/logger"
)

var (
	cfg    *config.Config
	log    *logger.Logger
	client *api.Client

	baseURL string
	token   string
)

// rootCmd comando base; los demás comandos cuelgan de él.
var rootCmd = &cobra.Command{
	Use:   "libreria",
	Short: "Cliente de inventario de librería: listados, documentos e importación CSV",
	Long: `libreria es el cliente de línea de comandos del sistema de inventario:
consulta listados paginados del catálogo y de los documentos transaccionales,
edita órdenes de compra, conciliaciones de venta y recompras, e importa
archivos CSV o XLSX contra el backend.`,
	SilenceUsage: true,
}

// Execute ejecuta el comando raíz.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initApp)
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "URL base del backend (prevalece sobre API_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "token Bearer (prevalece sobre API_TOKEN)")
}

// initApp carga configuración, logging y el cliente HTTP compartido.
func initApp() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if token != "" {
		cfg.API.Token = token
	}
	log = logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	client = api.NewClient(cfg.API, log)
}
