// Package probe actively measures reachability and service exposure of
// registered devices over plain TCP. It stands in for an agent on
// hardware we cannot instrument: latency and port posture are measured,
// the load figures are heuristics derived from them so probed devices
// flow through the same detection pipeline as simulated ones.
package probe

import (
	"context"
	"errors"
	"net"
	"sort"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/asset"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/domain/telemetry"
	"github.com/AryanVadhadiya/Smooth-Operator/internal/pkg/logger"
)

// commonPorts is the service surface checked on every sweep. MQTT
// (1883/8883) and Modbus (502) cover the industrial side.
var commonPorts = []int{22, 80, 443, 502, 1883, 8080, 8883}

// insecurePorts are plaintext or unauthenticated services; each open
// one adds 10 to the exposure score.
var insecurePorts = map[int]bool{80: true, 502: true, 1883: true}

const defaultDialTimeout = 500 * time.Millisecond

// Result is one sweep against a single address.
type Result struct {
	Reachable     bool
	LatencyMS     float64
	PacketLoss    float64
	OpenPorts     []int
	OpenPortCount int
	ExposureScore int
}

// Prober sweeps device addresses over TCP.
type Prober struct {
	timeout time.Duration
	dial    func(ctx context.Context, network, addr string) (net.Conn, error)
	logger  *logger.Logger
}

// New creates a prober with the default per-port dial timeout.
func New(log *logger.Logger) *Prober {
	d := &net.Dialer{}
	return &Prober{
		timeout: defaultDialTimeout,
		dial:    d.DialContext,
		logger:  log.Component("probe"),
	}
}

// Probe sweeps every common port on host concurrently. A connection
// refusal still proves the host is alive (it answered with a reset),
// so only timeouts count against reachability.
func (p *Prober) Probe(ctx context.Context, host string) Result {
	type portResult struct {
		port    int
		open    bool
		alive   bool
		latency time.Duration
	}

	results := make([]portResult, len(commonPorts))
	var wg sync.WaitGroup
	for i, port := range commonPorts {
		wg.Add(1)
		go func(i, port int) {
			defer wg.Done()

			dialCtx, cancel := context.WithTimeout(ctx, p.timeout)
			defer cancel()

			start := time.Now()
			conn, err := p.dial(dialCtx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
			elapsed := time.Since(start)

			if err == nil {
				conn.Close()
				results[i] = portResult{port: port, open: true, alive: true, latency: elapsed}
				return
			}
			if errors.Is(err, syscall.ECONNREFUSED) {
				results[i] = portResult{port: port, alive: true, latency: elapsed}
			}
		}(i, port)
	}
	wg.Wait()

	res := Result{PacketLoss: 100}
	best := time.Duration(-1)
	for _, pr := range results {
		if pr.open {
			res.OpenPorts = append(res.OpenPorts, pr.port)
		}
		if pr.alive {
			res.Reachable = true
			if best < 0 || pr.latency < best {
				best = pr.latency
			}
		}
	}
	sort.Ints(res.OpenPorts)
	res.OpenPortCount = len(res.OpenPorts)

	if res.Reachable {
		res.PacketLoss = 0
		res.LatencyMS = float64(best.Microseconds()) / 1000.0
		for _, port := range res.OpenPorts {
			if insecurePorts[port] {
				res.ExposureScore += 10
			}
		}
	}
	return res
}

// Sample maps a sweep into the standard telemetry record shape. The
// network figures are measured. cpu_usage scales with latency and
// network_traffic_mbps with the open service count; memory and disk
// are fixed placeholders a probe cannot observe.
func (r Result) Sample(a *asset.Asset, at time.Time) telemetry.Sample {
	features := map[string]float64{
		"network_latency_ms":      r.LatencyMS,
		"packet_loss_percent":     r.PacketLoss,
		"availability":            0,
		"open_port_count":         float64(r.OpenPortCount),
		"security_exposure_score": float64(r.ExposureScore),
		"network_traffic_mbps":    float64(r.OpenPortCount) * 50.0,
		"cpu_usage":               0,
		"memory_usage":            40.0,
		"disk_io_ops":             100,
	}
	if r.Reachable {
		features["availability"] = 100
		features["cpu_usage"] = 10.0 + r.LatencyMS*0.5
	}

	return telemetry.Sample{
		Timestamp: at,
		AssetID:   a.ID,
		AssetType: a.Type,
		Sector:    a.Sector,
		Features:  features,
		Labels:    map[string]string{"source": "probe"},
	}
}
