package web

import (
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"level": func(b bool) string {
		if b {
			return "on"
		}
		return "off"
	},
	"micros": func(d time.Duration) int64 {
		return d.Microseconds()
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Servo Bench</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.unknown { color: orange; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Servo Bench</h1>

<h2>Controller</h2>
<table>
<tr><th>State</th><td id="state" class="{{if .Started}}on{{else}}unknown{{end}}">{{if .Started}}{{.State}} ({{.State.Code}}){{else}}UNKNOWN{{end}}</td></tr>
<tr><th>Command</th><td id="command">{{.Command}} ({{micros .Command.PulseWidth}}us)</td></tr>
<tr><th>Indicator</th><td class="{{level .Indicator}}">{{level .Indicator}}</td></tr>
</table>

<h2>Inputs</h2>
<table>
<tr><th></th><th>raw</th><th>debounced</th></tr>
<tr><th>arm_fire</th><td class="{{level .Raw.ArmFire}}">{{level .Raw.ArmFire}}</td><td class="{{level .Debounced.ArmFire}}">{{level .Debounced.ArmFire}}</td></tr>
<tr><th>disarm</th><td class="{{level .Raw.Disarm}}">{{level .Raw.Disarm}}</td><td class="{{level .Debounced.Disarm}}">{{level .Debounced.Disarm}}</td></tr>
<tr><th>cam_switch</th><td class="{{level .Raw.CamSwitch}}">{{level .Raw.CamSwitch}}</td><td class="{{level .Debounced.CamSwitch}}">{{level .Debounced.CamSwitch}}</td></tr>
</table>

<h2>State Entries</h2>
<table>
{{range .Entries}}<tr><th>{{.Name}}</th><td>{{.Count}}</td></tr>
{{end}}</table>

<h2>Connectivity</h2>
<table>
<tr><th>MQTT</th><td class="{{if .MQTTConnected}}connected{{else}}disconnected{{end}}">{{if .MQTTConnected}}connected{{else}}disconnected{{end}}</td></tr>
<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>
<tr><th>Dropped</th><td>{{.Dropped}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Chip</th><td>{{.Config.Chip}}</td></tr>
<tr><th>Debounce</th><td>{{.DebounceMs}}ms</td></tr>
<tr><th>Read errors</th><td>{{.ReadErrors}}</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a> | <a href="/metrics">metrics</a></p>
</body>
</html>
`

type entry struct {
	Name  string
	Count int
}

func renderHTML(w io.Writer, snap status.Snapshot) {
	// Snapshot has Uptime() method but template needs a Duration field.
	data := struct {
		status.Snapshot
		Uptime     time.Duration
		DebounceMs int64
		Entries    []entry
	}{
		Snapshot:   snap,
		Uptime:     snap.Uptime(),
		DebounceMs: logic.DebounceWindow.Milliseconds(),
	}
	for _, s := range logic.States {
		data.Entries = append(data.Entries, entry{Name: s.String(), Count: snap.Counts.Of(s)})
	}
	indexTmpl.Execute(w, data)
}
