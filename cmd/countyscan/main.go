package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"countyscan/internal/config"
	"countyscan/internal/httpx"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "countyscan",
	Short: "County property-records tooling: analyze, scrape, classify",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		timeout := httpx.ConfigureExternalHTTPClient(cfg.ExternalHTTPTimeoutSeconds)
		log.Printf("external HTTP timeout=%s", timeout)
		return nil
	},
}

func main() {
	log.SetFlags(log.LstdFlags)
	rootCmd.AddCommand(analyzeCmd, scrapeCmd, classifyCmd)
	if err := rootCmd.Execute(); err != nil {
		log.Printf("error: %v", err)
		os.Exit(1)
	}
}
