package util

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// PerfEnabled indicates if timing statistics are collected
var PerfEnabled bool

// PerfMetric aggregates every measurement recorded under one name
type PerfMetric struct {
	Name      string
	Last      time.Duration
	Max       time.Duration
	Count     int64
	TotalTime time.Duration
}

// Average is the mean duration, zero when nothing was recorded
func (m PerfMetric) Average() time.Duration {
	if m.Count == 0 {
		return 0
	}
	return m.TotalTime / time.Duration(m.Count)
}

// PerfTracker tracks timing metrics across the application
type PerfTracker struct {
	mu      sync.RWMutex
	metrics map[string]*PerfMetric
	started time.Time
}

var (
	globalPerf     *PerfTracker
	globalPerfOnce sync.Once
)

// NewPerfTracker returns an empty tracker
func NewPerfTracker() *PerfTracker {
	return &PerfTracker{
		metrics: make(map[string]*PerfMetric),
		started: time.Now(),
	}
}

// GetPerfTracker returns the global performance tracker
func GetPerfTracker() *PerfTracker {
	globalPerfOnce.Do(func() {
		globalPerf = NewPerfTracker()
	})
	return globalPerf
}

// Timer represents an active timing operation
type Timer struct {
	name    string
	start   time.Time
	tracker *PerfTracker
}

// StartTimer starts a timer on the global tracker. It returns nil when profiling is disabled.
func StartTimer(name string) *Timer {
	if !PerfEnabled {
		return nil
	}
	return &Timer{name: name, start: time.Now(), tracker: GetPerfTracker()}
}

// StopAndLog stops the timer, records and logs the duration. A nil timer is a no-op.
func (t *Timer) StopAndLog() time.Duration {
	if t == nil {
		return 0
	}
	d := time.Since(t.start)
	t.tracker.Record(t.name, d)
	Debugf("[PERF] %s took %v", t.name, d)
	return d
}

// Record adds a measurement
func (pt *PerfTracker) Record(name string, d time.Duration) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	m, ok := pt.metrics[name]
	if !ok {
		m = &PerfMetric{Name: name}
		pt.metrics[name] = m
	}
	m.Count++
	m.TotalTime += d
	m.Last = d
	if d > m.Max {
		m.Max = d
	}
}

// Metrics returns a copy of all metrics, slowest total first
func (pt *PerfTracker) Metrics() []PerfMetric {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	out := make([]PerfMetric, 0, len(pt.metrics))
	for _, m := range pt.metrics {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalTime == out[j].TotalTime {
			return out[i].Name < out[j].Name
		}
		return out[i].TotalTime > out[j].TotalTime
	})
	return out
}

var (
	perfTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)

	perfValueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	perfSlowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true)
)

// slowThreshold marks calls slow enough to trip the loading indicator
const slowThreshold = 500 * time.Millisecond

// Report renders the collected metrics
func (pt *PerfTracker) Report() string {
	var b strings.Builder
	b.WriteString(perfTitleStyle.Render("⚡ API TIMINGS"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("   session started %s\n", humanize.Time(pt.started)))
	b.WriteString(fmt.Sprintf("   %-32s %8s %10s %10s\n", "operation", "calls", "avg", "max"))
	for _, m := range pt.Metrics() {
		avg := m.Average().Round(time.Millisecond).String()
		if m.Average() > slowThreshold {
			avg = perfSlowStyle.Render(avg)
		} else {
			avg = perfValueStyle.Render(avg)
		}
		b.WriteString(fmt.Sprintf("   %-32s %8s %10s %10s\n",
			m.Name, humanize.Comma(m.Count), avg, m.Max.Round(time.Millisecond)))
	}
	return b.String()
}

// PrintReport prints the report of the global tracker when profiling is enabled
func PrintReport() {
	if !PerfEnabled {
		return
	}
	fmt.Print(GetPerfTracker().Report())
}
