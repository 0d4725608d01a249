package diag

import (
	log "github.com/sirupsen/logrus"

	"github.com/sweeney/servo-bench/internal/logic"
)

// LogSink logs each state change at info level.
type LogSink struct {
	// Logger receives the entries. Nil means the standard logrus logger.
	Logger log.FieldLogger
}

// StateChanged logs t with its state code and raw cam switch level.
func (s LogSink) StateChanged(t logic.Transition) {
	l := s.Logger
	if l == nil {
		l = log.StandardLogger()
	}

	cmd, indicator := logic.Output(t.To)
	l.WithFields(log.Fields{
		"state":     t.To.Code(),
		"sw":        boolCode(t.CamSwitchRaw),
		"command":   cmd.String(),
		"indicator": indicator,
	}).Infof("%s -> %s", t.From, t.To)
}

func boolCode(b bool) int {
	if b {
		return 1
	}
	return 0
}
