package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/sweeney/servo-bench/internal/control"
	"github.com/sweeney/servo-bench/internal/logic"
	"github.com/sweeney/servo-bench/internal/metrics"
	"github.com/sweeney/servo-bench/internal/status"
)

func newTestServer(t *testing.T) (*httptest.Server, *status.Tracker, *metrics.Metrics) {
	t.Helper()
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := status.Config{
		Chip:        "gpiochip0",
		HeartbeatMs: 900000,
		Broker:      "tcp://192.168.1.200:1883",
		HTTPAddr:    ":8080",
	}
	tr := status.NewTracker(start, cfg)
	m := metrics.New()
	srv := New(":0", tr, m.Handler())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, tr, m
}

func getJSON(t *testing.T, url string) status.StatusJSON {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var sj status.StatusJSON
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sj))
	return sj
}

func getBody(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestJSONEndpoint(t *testing.T) {
	ts, tr, _ := newTestServer(t)

	var counts logic.StateCounts
	counts[logic.StateFiring] = 5
	tr.Update(control.Snapshot{
		State:     logic.StateFiring,
		Command:   logic.CommandForward,
		Indicator: true,
		Debounced: logic.Inputs{ArmFire: true, CamSwitch: true},
	}, counts)
	tr.SetMQTTConnected(true)

	sj := getJSON(t, ts.URL+"/index.json")

	require.Equal(t, "FIRING", sj.Status.State)
	require.True(t, sj.Status.Ready)
	require.Equal(t, int64(2000), sj.Status.PulseUs)
	require.True(t, sj.Status.MQTT.Connected)
	require.Equal(t, "tcp://192.168.1.200:1883", sj.Status.MQTT.Broker)
	require.Equal(t, 5, sj.Status.Counts["FIRING"])
	require.Equal(t, "gpiochip0", sj.Status.Config.Chip)
}

func TestJSONUnknownStateBeforeStart(t *testing.T) {
	ts, _, _ := newTestServer(t)

	sj := getJSON(t, ts.URL+"/index.json")
	require.Equal(t, "UNKNOWN", sj.Status.State)
	require.False(t, sj.Status.Ready)
}

func TestHTMLEndpointRoot(t *testing.T) {
	ts, tr, _ := newTestServer(t)
	tr.Update(control.Snapshot{State: logic.StateResetting, Command: logic.CommandReverse, Indicator: true}, logic.StateCounts{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, 200, resp.StatusCode)
	require.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), "text/html"))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "RESETTING (5)")
	require.Contains(t, string(body), "REVERSE (1000us)")
	require.Contains(t, string(body), "RECOCKING_AFTER_RESET")
}

func TestHTMLEndpointIndexHTML(t *testing.T) {
	ts, _, _ := newTestServer(t)

	code, body := getBody(t, ts.URL+"/index.html")
	require.Equal(t, 200, code)
	require.Contains(t, body, "UNKNOWN")
}

func TestNotFoundForUnknownPath(t *testing.T) {
	ts, _, _ := newTestServer(t)

	code, _ := getBody(t, ts.URL+"/nonexistent")
	require.Equal(t, 404, code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts, _, m := newTestServer(t)
	m.StateChanged(logic.Transition{From: logic.StateIdle, To: logic.StateCocking})

	code, body := getBody(t, ts.URL+"/metrics")
	require.Equal(t, 200, code)
	require.Contains(t, body, `servo_bench_state_entries_total{state="COCKING"} 1`)
}

func TestMetricsEndpointDisabled(t *testing.T) {
	tr := status.NewTracker(time.Now(), status.Config{})
	ts := httptest.NewServer(New(":0", tr, nil).Handler())
	defer ts.Close()

	// falls through to the index handler, which rejects the path
	code, _ := getBody(t, ts.URL+"/metrics")
	require.Equal(t, 404, code)
}

func TestStateChangesReflectedInResponse(t *testing.T) {
	ts, tr, _ := newTestServer(t)

	require.False(t, getJSON(t, ts.URL+"/index.json").Status.Ready)

	tr.Update(control.Snapshot{State: logic.StateCocked}, logic.StateCounts{})
	tr.SetMQTTConnected(true)

	sj := getJSON(t, ts.URL+"/index.json")
	require.True(t, sj.Status.Ready)
	require.Equal(t, "COCKED", sj.Status.State)
	require.True(t, sj.Status.MQTT.Connected)
}
