package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sweeney/servo-bench/internal/config"
	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/diag"
	"github.com/sweeney/servo-bench/internal/gpio"
	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/metrics"
	"github.com/sweeney/servo-bench/internal/mqtt"
	"github.com/sweeney/servo-bench/internal/servo"
	"github.com/sweeney/servo-bench/internal/status"
	"github.com/sweeney/servo-bench/internal/web"
)

// pollInterval is the control loop period. The tick paces sampling at the
// debounce resolution instead of spinning a core on the GPIO character device.
const pollInterval = time.Millisecond

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the control loop",
	RunE: func(_ *cobra.Command, _ []string) error {
		configureVerbosity()
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return run(cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cfg *config.Config) error {
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

	m := metrics.New()
	sinks := diag.Multi{m}
	var queues []*diag.Async
	addQueued := func(s control.Sink) {
		q := diag.NewAsync(s, diag.DefaultQueueSize)
		queues = append(queues, q)
		sinks = append(sinks, q)
	}
	addQueued(diag.LogSink{})

	d := &daemon{
		tracker: status.NewTracker(time.Now(), status.Config{
			Chip:         cfg.Chip,
			Broker:       cfg.MQTT.Broker,
			HTTPAddr:     cfg.HTTPAddr,
			SerialDevice: cfg.Serial.Device,
			HeartbeatMs:  cfg.Heartbeat.Milliseconds(),
		}),
		metrics:   m,
		heartbeat: cfg.Heartbeat,
		now:       time.Now,
	}

	if cfg.MQTT.Broker != "" {
		publisher, err := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID)
		if err != nil {
			return fmt.Errorf("init mqtt: %w", err)
		}
		defer publisher.Close()
		d.publisher = publisher
		d.mqttStatus = publisher
		d.events = diag.NewSystemQueue(publisher, diag.DefaultQueueSize, func(error) { m.PublishErrors.Inc() })
		defer d.events.Close()
		addQueued(diag.MQTTSink{
			Publisher: publisher,
			OnError:   func(error) { m.PublishErrors.Inc() },
		})
	}

	if cfg.Serial.Device != "" {
		console, err := diag.OpenSerial(cfg.Serial.Device, cfg.Serial.Baud)
		if err != nil {
			return fmt.Errorf("init serial console: %w", err)
		}
		defer console.Close()
		addQueued(console)
	}

	// drain queued diagnostics before the publisher and console close
	defer func() {
		for _, q := range queues {
			q.Close()
		}
	}()
	d.queues = queues
	d.loop = control.New(reader, driver, sinks, time.Now)

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, d.tracker, m.Handler())
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Infof("http status server listening on %s", cfg.HTTPAddr)
	}

	log.Infof("started: chip=%s broker=%q heartbeat=%v", cfg.Chip, cfg.MQTT.Broker, cfg.Heartbeat)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return d.runLoop(ticker.C, sigCh)
}

// daemon is everything the control loop reports to.
// publisher, mqttStatus, events, tracker and metrics may be nil.
type daemon struct {
	loop       *control.Loop
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus
	events     *diag.SystemQueue
	tracker    *status.Tracker
	metrics    *metrics.Metrics
	queues     []*diag.Async
	heartbeat  time.Duration
	now        func() time.Time
	last       control.Snapshot
}

func (d *daemon) runLoop(tick <-chan time.Time, sig <-chan os.Signal) error {
	snap, err := d.loop.Start()
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	log.Infof("initial state %s", snap.State)
	d.record(snap)
	d.publishStatus("STARTUP", "")

	for {
		select {
		case s := <-sig:
			log.Infof("received %v, shutting down", s)
			if err := d.loop.Park(); err != nil {
				log.Errorf("park servo: %v", err)
			} else {
				parked := d.last
				parked.Time = d.now()
				parked.Command = logic.CommandNeutral
				parked.Indicator = false
				parked.Transition = nil
				d.record(parked)
			}
			// heartbeats still queued go out before SHUTDOWN
			if d.events != nil {
				d.events.Close()
			}
			d.publishStatus("SHUTDOWN", signalName(s))
			return nil

		case <-tick:
			snap, err := d.loop.Step()
			if errors.Is(err, control.ErrRead) {
				log.Warnf("gpio read error: %v", err)
				if d.tracker != nil {
					d.tracker.AddReadError()
				}
				if d.metrics != nil {
					d.metrics.ReadErrors.Inc()
				}
				continue
			}
			if err != nil {
				log.Errorf("output error: %v", err)
				if d.metrics != nil {
					d.metrics.WriteErrors.Inc()
				}
			}
			d.record(snap)

			if hb := d.loop.Machine().CheckHeartbeat(snap.Time, d.heartbeat); hb != nil {
				log.Infof("heartbeat: uptime=%v state=%s shots=%d", hb.Uptime, hb.State, hb.Counts.Of(logic.StateFiring))
				d.queueStatus("HEARTBEAT", "")
			}
		}
	}
}

// record pushes one iteration into the tracker and metrics.
func (d *daemon) record(snap control.Snapshot) {
	d.last = snap

	var dropped uint64
	for _, q := range d.queues {
		dropped += q.Dropped()
	}
	if d.events != nil {
		dropped += d.events.Dropped()
	}

	if d.metrics != nil {
		d.metrics.Observe(snap)
		d.metrics.Dropped.Set(float64(dropped))
	}
	if d.tracker != nil {
		d.tracker.Update(snap, d.loop.Machine().Counts())
		d.tracker.SetDropped(dropped)
		if d.mqttStatus != nil {
			d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
		}
	}
}

// statusEvent builds a lifecycle event carrying a full status snapshot.
// Heartbeats are not retained.
func (d *daemon) statusEvent(event, reason string) mqtt.SystemEvent {
	e := mqtt.SystemEvent{
		Timestamp: d.now(),
		Event:     event,
		Reason:    reason,
		Retained:  event != "HEARTBEAT",
	}
	if d.tracker != nil {
		e.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), event, reason)
	}
	return e
}

// publishStatus publishes a lifecycle event and waits for the broker. It is
// only used outside steady-state control.
func (d *daemon) publishStatus(event, reason string) {
	if d.publisher == nil {
		return
	}

	if err := d.publisher.PublishSystem(d.statusEvent(event, reason)); err != nil {
		log.Errorf("failed to publish %s event: %v", event, err)
		if d.metrics != nil {
			d.metrics.PublishErrors.Inc()
		}
		return
	}
	log.Debugf("published %s event", event)
}

// queueStatus hands a lifecycle event to the event queue without waiting.
// Without a queue it publishes directly.
func (d *daemon) queueStatus(event, reason string) {
	if d.publisher == nil {
		return
	}
	if d.events == nil {
		d.publishStatus(event, reason)
		return
	}
	d.events.Publish(d.statusEvent(event, reason))
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}
