// Command servo-bench sequences a servo cocking/firing mechanism from two
// operator buttons and a cam position switch, and publishes its state changes.
package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/servo-bench/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "servo-bench",
	Short: "Servo cocking/firing bench controller",
}

// flags
var (
	rootVerboseFlag bool
	rootConfigFlag  string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&rootVerboseFlag, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&rootConfigFlag, "config", "c", "", "path to YAML config (default: bench wiring)")
}

// configureVerbosity configures log verbosity based on parsed flags.
func configureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if rootVerboseFlag {
		log.SetLevel(log.DebugLevel)
	}
}

// loadConfig reads the --config file, or the defaults if none was given.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if rootConfigFlag != "" {
		var err error
		if cfg, err = config.ReadConfig(rootConfigFlag); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
