package slotmap

import "fmt"

// Stats describes the size and history of a container.
//
//   - Len: live entries
//   - Cap: entries addressable without growing
//   - Pages: dense pages allocated
//   - IndexPages: index pages allocated (free-list table or redirection table)
//   - Allocs, Erases, Grows: cumulative operation counts
type Stats struct {
	Len        int
	Cap        int
	Pages      int
	IndexPages int
	Allocs     uint64
	Erases     uint64
	Grows      uint64
}

// instruments is embedded by every container: naming, logging, metrics,
// counters and the panic path.
type instruments struct {
	name    string
	logger  *Logger
	metrics MetricsCollector

	allocs uint64
	erases uint64
	grows  uint64
}

func newInstruments(o options) instruments {
	return instruments{
		name:    o.name,
		logger:  o.logger.WithContainer(o.name),
		metrics: o.metricsCollector,
	}
}

func (in *instruments) allocated() {
	in.allocs++
	in.metrics.RecordAllocate(in.name)
}

func (in *instruments) erased() {
	in.erases++
	in.metrics.RecordErase(in.name)
}

func (in *instruments) grew(pages, capacity int) {
	in.grows++
	in.logger.LogGrow(pages, capacity)
	in.metrics.RecordGrow(in.name, pages, capacity)
}

// violate logs and reports a contract violation, then panics with it.
func (in *instruments) violate(op string, s Slot, err error) {
	in.logger.LogViolation(op, s, err)
	in.metrics.RecordViolation(in.name, op)
	panic(&ContractViolation{
		Container: in.name,
		Op:        op,
		Slot:      s,
		Err:       err,
	})
}

func (in *instruments) corrupted(format string, args ...any) error {
	return fmt.Errorf("%s: %w: "+format, append([]any{in.name, ErrCorrupted}, args...)...)
}
