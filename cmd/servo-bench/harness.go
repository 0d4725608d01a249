package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/harness"
	"github.com/sweeney/servo-bench/internal/servo"
)

var harnessCmd = &cobra.Command{
	Use:   "harness",
	Short: "Drive the servo directly: arm_fire runs forward, disarm runs reverse",
	RunE: func(_ *cobra.Command, _ []string) error {
		configureVerbosity()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		reader, err := gpio.NewRealReader(cfg.Chip, cfg.InputPins())
		if err != nil {
			return fmt.Errorf("init gpio: %w", err)
		}
		defer reader.Close()

		driver, err := servo.NewRealDriver(cfg.Chip, cfg.ServoPins())
		if err != nil {
			return fmt.Errorf("init servo: %w", err)
		}
		defer driver.Close()

		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		log.Info("harness running")
		return runHarness(harness.New(reader, driver, time.Now), ticker.C, sigCh)
	},
}

func init() {
	rootCmd.AddCommand(harnessCmd)
}

func runHarness(h *harness.Harness, tick <-chan time.Time, sig <-chan os.Signal) error {
	var last string
	for {
		select {
		case s := <-sig:
			log.Infof("received %v, parking servo", s)
			return h.Park()

		case <-tick:
			cmd, _, err := h.Step()
			if err != nil {
				log.Warnf("harness: %v", err)
				continue
			}
			if c := cmd.String(); c != last {
				log.Infof("harness: %s", c)
				last = c
			}
		}
	}
}
