package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Outcomes recorded per application operation.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	opsMu      sync.Mutex
	operations = map[opKey]uint64{}

	requestDuration = newHistogram([]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500})
)

type opKey struct {
	op      string
	outcome string
}

// IncOperation counts one application operation with its outcome.
func IncOperation(op, outcome string) {
	opsMu.Lock()
	operations[opKey{op: op, outcome: outcome}]++
	opsMu.Unlock()
}

// OperationCount returns the current count for op and outcome.
func OperationCount(op, outcome string) uint64 {
	opsMu.Lock()
	defer opsMu.Unlock()
	return operations[opKey{op: op, outcome: outcome}]
}

// ObserveRequestDurationMs records a request duration in milliseconds.
func ObserveRequestDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	requestDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeOperations(&buf, "application_operations_total", "Application operations by outcome", snapshotOperations())
	writeHistogram(&buf, "http_request_duration_ms", "HTTP request duration in milliseconds", requestDuration.Snapshot())
	return buf.String()
}

type opSample struct {
	key   opKey
	value uint64
}

func snapshotOperations() []opSample {
	opsMu.Lock()
	out := make([]opSample, 0, len(operations))
	for k, v := range operations {
		out = append(out, opSample{key: k, value: v})
	}
	opsMu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].key.op != out[j].key.op {
			return out[i].key.op < out[j].key.op
		}
		return out[i].key.outcome < out[j].key.outcome
	})
	return out
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe counts value in the first bucket whose bound it does not exceed.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeOperations(buf *bytes.Buffer, name, help string, samples []opSample) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, s := range samples {
		fmt.Fprintf(buf, "%s{op=%q,outcome=%q} %d\n", name, s.key.op, s.key.outcome, s.value)
	}
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Since returns the elapsed milliseconds since start.
func Since(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
