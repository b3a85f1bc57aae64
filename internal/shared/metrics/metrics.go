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

var (
	pipelineStartedTotal   atomic.Uint64
	pipelineCompletedTotal atomic.Uint64
	pipelineFailedTotal    atomic.Uint64
	duplicateHitsTotal     atomic.Uint64

	notifyReceivedTotal      atomic.Uint64
	notifySentTotal          atomic.Uint64
	notifyFailedTotal        atomic.Uint64
	notifyUnrecoverableTotal atomic.Uint64

	dispositionMu     sync.Mutex
	dispositionTotals = map[string]uint64{}

	pipelineDuration = newHistogram([]float64{100, 250, 500, 1000, 2000, 5000, 10000, 30000, 60000})
)

// IncPipelineStarted increments the started counter.
func IncPipelineStarted() {
	pipelineStartedTotal.Add(1)
}

// IncPipelineCompleted increments the completed counter.
func IncPipelineCompleted() {
	pipelineCompletedTotal.Add(1)
}

// IncPipelineFailed increments the failed counter.
func IncPipelineFailed() {
	pipelineFailedTotal.Add(1)
}

// IncDuplicateHit increments the duplicate short-circuit counter.
func IncDuplicateHit() {
	duplicateHitsTotal.Add(1)
}

// IncDisposition increments the per-disposition counter.
func IncDisposition(disposition string) {
	dispositionMu.Lock()
	dispositionTotals[disposition]++
	dispositionMu.Unlock()
}

// IncNotifyReceived counts notification messages picked up by the worker.
func IncNotifyReceived() {
	notifyReceivedTotal.Add(1)
}

// IncNotifySent counts notifications delivered to the mailer.
func IncNotifySent() {
	notifySentTotal.Add(1)
}

// IncNotifyFailed counts notification attempts that will be retried.
func IncNotifyFailed() {
	notifyFailedTotal.Add(1)
}

// IncNotifyUnrecoverable counts notification messages deleted without processing.
func IncNotifyUnrecoverable() {
	notifyUnrecoverableTotal.Add(1)
}

// ObservePipelineDurationMs records a full pipeline run duration in milliseconds.
func ObservePipelineDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	pipelineDuration.Observe(value)
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
	writeCounter(&buf, "pipeline_started_total", "Total pipeline runs started", pipelineStartedTotal.Load())
	writeCounter(&buf, "pipeline_completed_total", "Total pipeline runs completed", pipelineCompletedTotal.Load())
	writeCounter(&buf, "pipeline_failed_total", "Total pipeline runs failed", pipelineFailedTotal.Load())
	writeCounter(&buf, "pipeline_duplicate_hits_total", "Total duplicate-evidence short circuits", duplicateHitsTotal.Load())
	writeCounter(&buf, "notify_received_total", "Total notification messages received", notifyReceivedTotal.Load())
	writeCounter(&buf, "notify_sent_total", "Total notifications handed to the mailer", notifySentTotal.Load())
	writeCounter(&buf, "notify_failed_total", "Total notification attempts failed", notifyFailedTotal.Load())
	writeCounter(&buf, "notify_unrecoverable_total", "Total notification messages dropped as unrecoverable", notifyUnrecoverableTotal.Load())
	writeDispositions(&buf)
	writeHistogram(&buf, "pipeline_duration_ms", "Pipeline run duration in milliseconds", pipelineDuration.Snapshot())
	return buf.String()
}

func writeDispositions(buf *bytes.Buffer) {
	dispositionMu.Lock()
	keys := make([]string, 0, len(dispositionTotals))
	for k := range dispositionTotals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(buf, "# HELP decisions_total Total decisions by disposition\n")
	fmt.Fprintf(buf, "# TYPE decisions_total counter\n")
	for _, k := range keys {
		fmt.Fprintf(buf, "decisions_total{disposition=%q} %d\n", k, dispositionTotals[k])
	}
	dispositionMu.Unlock()
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

func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
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

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
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

// NowMillis returns current time in milliseconds, useful for callers without time utilities.
func NowMillis() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Millisecond)
}
