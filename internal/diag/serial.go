package diag

import (
	"fmt"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
	"go.bug.st/serial"

	"github.com/sweeney/servo-bench/internal/logic"
)

// DefaultBaudRate is the console speed used when none is configured.
const DefaultBaudRate = 115200

// SerialSink writes the debug display lines for every state change to a
// console, one "state: N sw: N" record per line.
type SerialSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewSerialSink writes to w.
func NewSerialSink(w io.Writer) *SerialSink {
	return &SerialSink{w: w}
}

// OpenSerial opens a serial port and returns a sink writing to it.
func OpenSerial(device string, baud int) (*SerialSink, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", device, err)
	}
	return NewSerialSink(port), nil
}

// FormatDebug returns the debug record for t.
func FormatDebug(t logic.Transition) string {
	return fmt.Sprintf("state: %d sw: %d", t.To.Code(), boolCode(t.CamSwitchRaw))
}

// StateChanged writes the record for t.
func (s *SerialSink) StateChanged(t logic.Transition) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, FormatDebug(t)+"\r\n"); err != nil {
		log.Warnf("serial console: %v", err)
	}
}

// Close closes the underlying port if it is closable.
func (s *SerialSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
