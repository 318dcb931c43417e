package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/michaelscutari/catifs/internal/config"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "catifs <catalog> <dir>",
	Short: "Catalog a directory tree into a catifs metadata database",
	Long: `catifs walks a directory tree and records the lstat metadata of every
entry below it in a SQLite catalog. The catalog is created when it does not
exist. Progress is printed every checkpoint (1000 entries by default).`,
	Args:              cobra.ExactArgs(2),
	RunE:              runScan,
	PersistentPreRunE: loadConfig,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// cfg is resolved once per invocation before any command runs.
var cfg *config.Config

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace|debug|info|warn|error")
	addScanFlags(rootCmd)

	rootCmd.AddCommand(rescanCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(attrCmd)
}

func loadConfig(cmd *cobra.Command, args []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd); err != nil {
		return err
	}
	loaded, err := config.Load(v)
	if err != nil {
		return err
	}
	if err := loaded.SetupLogging(os.Stderr); err != nil {
		return err
	}
	cfg = loaded
	return nil
}
