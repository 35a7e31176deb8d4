// Package sampler wraps the process-introspection facility the benchmark
// engine measures with. The engine only calls it; it never probes the OS
// itself.
package sampler

import (
	"fmt"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// Missing is the sentinel recorded when a probe is unavailable. Samples carry
// it instead of aborting the task.
const Missing = -1.0

// Sampler provides timing, CPU, and resident-memory readings.
type Sampler interface {
	Now() time.Time
	// CPUPercent returns a system-wide instantaneous reading (percent since
	// the previous call), not an interval average.
	CPUPercent() (float64, error)
	ResidentMemoryMB() (float64, error)
}

// ProcessSampler implements Sampler with gopsutil against the current
// process (RSS) and the host (CPU).
type ProcessSampler struct {
	proc *process.Process
}

// NewProcessSampler builds a sampler bound to the current process.
func NewProcessSampler() (*ProcessSampler, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("failed to open process handle: %w", err)
	}
	// Prime the CPU counter so the first real reading has a reference point.
	_, _ = cpu.Percent(0, false)
	return &ProcessSampler{proc: proc}, nil
}

func (s *ProcessSampler) Now() time.Time { return time.Now() }

func (s *ProcessSampler) CPUPercent() (float64, error) {
	percents, err := cpu.Percent(0, false)
	if err != nil {
		return Missing, fmt.Errorf("cpu probe: %w", err)
	}
	if len(percents) == 0 {
		return Missing, fmt.Errorf("cpu probe returned no readings")
	}
	return percents[0], nil
}

func (s *ProcessSampler) ResidentMemoryMB() (float64, error) {
	info, err := s.proc.MemoryInfo()
	if err != nil {
		return Missing, fmt.Errorf("memory probe: %w", err)
	}
	return float64(info.RSS) / (1024 * 1024), nil
}
