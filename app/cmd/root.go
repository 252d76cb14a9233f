// Package cmd holds the storefront command line.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"example.com/storefront/app/internal/config"
)

var (
	cfgFile string
	v       *viper.Viper
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Storefront BFF for the upstream e-commerce API",
	Long: `storefront keeps one session, cart and wishlist per browser and
synchronizes them with the upstream e-commerce REST API.

Configuration is read from storefront.yaml (current directory or
/etc/storefront) and from STOREFRONT_* environment variables, e.g.
STOREFRONT_SESSION_STORE=redis.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./storefront.yaml)")
}

func initConfig() {
	v = config.NewViper(cfgFile)
}
