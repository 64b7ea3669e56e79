package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
)

// Operation names used as the "op" label.
const (
	OpAnalyze  = "analyze"
	OpGenerate = "generate"
)

var (
	registry = newOpCounters()

	gatewayDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncStarted increments the started counter for op.
func IncStarted(op string) {
	registry.get(op).started.Add(1)
}

// IncCompleted increments the completed counter for op.
func IncCompleted(op string) {
	registry.get(op).completed.Add(1)
}

// IncFailed increments the failed counter for op.
func IncFailed(op string) {
	registry.get(op).failed.Add(1)
}

// ObserveGatewayDuration records one model call duration.
func ObserveGatewayDuration(d time.Duration) {
	ms := float64(d.Microseconds()) / 1000.0
	if ms < 0 {
		ms = 0
	}
	gatewayDuration.Observe(ms)
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
	snap := registry.snapshot()
	writeCounter(&buf, "resume_requests_started_total", "Total resume requests started", snap, func(c counterSnapshot) uint64 { return c.started })
	writeCounter(&buf, "resume_requests_completed_total", "Total resume requests completed", snap, func(c counterSnapshot) uint64 { return c.completed })
	writeCounter(&buf, "resume_requests_failed_total", "Total resume requests failed", snap, func(c counterSnapshot) uint64 { return c.failed })
	writeHistogram(&buf, "gateway_duration_ms", "Model gateway call duration in milliseconds", gatewayDuration.Snapshot())
	return buf.String()
}

type opCounter struct {
	started   atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
}

type counterSnapshot struct {
	op        string
	started   uint64
	completed uint64
	failed    uint64
}

type opCounters struct {
	mu  sync.Mutex
	ops map[string]*opCounter
}

func newOpCounters() *opCounters {
	return &opCounters{ops: map[string]*opCounter{
		OpAnalyze:  {},
		OpGenerate: {},
	}}
}

func (o *opCounters) get(op string) *opCounter {
	o.mu.Lock()
	defer o.mu.Unlock()
	c, ok := o.ops[op]
	if !ok {
		c = &opCounter{}
		o.ops[op] = c
	}
	return c
}

func (o *opCounters) snapshot() []counterSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]counterSnapshot, 0, len(o.ops))
	for op, c := range o.ops {
		out = append(out, counterSnapshot{
			op:        op,
			started:   c.started.Load(),
			completed: c.completed.Load(),
			failed:    c.failed.Load(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].op < out[j].op })
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

// Observe counts value in the first bucket whose bound covers it.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			return
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

func writeCounter(buf *bytes.Buffer, name, help string, snap []counterSnapshot, value func(counterSnapshot) uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	for _, c := range snap {
		fmt.Fprintf(buf, "%s{op=%q} %d\n", name, c.op, value(c))
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
