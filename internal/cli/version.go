package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version se fija en tiempo de build vía ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión del cliente",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("libreria %s (%s)\n", Version, runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
