package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "honnylove",
	Short: "Vitrine HonnyLove : BFF panier, favoris et catalogue",
	Long: `Serveur intermédiaire entre la vitrine HonnyLove et l'API boutique.

Commandes :
  server   Lance le serveur HTTP (par défaut)
  reindex  Recopie le catalogue de l'API dans Elasticsearch`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "fichier .env à charger")
	rootCmd.AddCommand(serverCmd, reindexCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}
