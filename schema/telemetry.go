package schema

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Telemetry is the optional per-subschema instrumentation: how many times
// Generate visited each schema position, how many candidate instances that
// position contributed, and how long it took.
// It is entirely passive — attaching one to GenerateOptions never changes
// which instances are produced, only what gets recorded about producing
// them.
type Telemetry struct {
	mu      sync.Mutex
	entries map[string]*TelemetryEntry
}

// NewTelemetry returns an empty, ready-to-use Telemetry.
func NewTelemetry() *Telemetry {
	return &Telemetry{entries: make(map[string]*TelemetryEntry)}
}

// TelemetryEntry is one schema position's accumulated counters.
type TelemetryEntry struct {
	SchemaPath   string
	Invocations  int
	Instances    int
	TotalElapsed time.Duration
}

func (e TelemetryEntry) String() string {
	return fmt.Sprintf("%s: %d invocation(s), %d instance(s), %s", e.SchemaPath, e.Invocations, e.Instances, e.TotalElapsed)
}

func (t *Telemetry) record(schemaPath string, elapsed time.Duration, instances int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[schemaPath]
	if !ok {
		e = &TelemetryEntry{SchemaPath: schemaPath}
		t.entries[schemaPath] = e
	}
	e.Invocations++
	e.Instances += instances
	e.TotalElapsed += elapsed
}

// Report returns every recorded entry, busiest (by total elapsed time)
// first.
func (t *Telemetry) Report() []TelemetryEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]TelemetryEntry, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalElapsed != out[j].TotalElapsed {
			return out[i].TotalElapsed > out[j].TotalElapsed
		}
		return out[i].SchemaPath < out[j].SchemaPath
	})
	return out
}

// String renders the full report, one entry per line, for diagnostic
// logging (the generate CLI's --show-timings flag).
func (t *Telemetry) String() string {
	entries := t.Report()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return strings.Join(lines, "\n")
}
