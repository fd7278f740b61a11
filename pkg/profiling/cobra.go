package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"
)

// CobraProfiler wires --timing, --cpu-profile and --mem-profile into a
// command tree.
type CobraProfiler struct {
	profiler       *Profiler
	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

// NewCobraProfiler drives p, or the default profiler when p is nil.
func NewCobraProfiler(p *Profiler) *CobraProfiler {
	if p == nil {
		p = defaultProfiler
	}
	return &CobraProfiler{profiler: p}
}

// Attach adds the flags to cmd and installs the persistent hooks.
func (c *CobraProfiler) Attach(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&c.cpuProfilePath, "cpu-profile", "", "Write a CPU profile to this file")
	cmd.PersistentFlags().StringVar(&c.memProfilePath, "mem-profile", "", "Write a heap profile to this file on exit")
	cmd.PersistentFlags().BoolVar(&c.timing, "timing", false, "Print how long each phase took")
	cmd.PersistentPreRunE = c.PreRun
	cmd.PersistentPostRunE = c.PostRun
}

// PreRun enables timing and starts CPU profiling as requested.
func (c *CobraProfiler) PreRun(cmd *cobra.Command, args []string) error {
	if c.timing {
		c.profiler.Enable()
	}
	if c.cpuProfilePath == "" {
		return nil
	}

	f, err := os.Create(c.cpuProfilePath)
	if err != nil {
		return fmt.Errorf("could not create CPU profile: %w", err)
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return fmt.Errorf("could not start CPU profile: %w", err)
	}
	c.cpuProfileFile = f
	return nil
}

// PostRun writes the profiles and the timing summary to stderr.
func (c *CobraProfiler) PostRun(cmd *cobra.Command, args []string) error {
	out := cmd.ErrOrStderr()

	if c.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		if err := c.cpuProfileFile.Close(); err != nil {
			return err
		}
		c.cpuProfileFile = nil
		fmt.Fprintf(out, "CPU profile written to %s\n", c.cpuProfilePath)
	}

	if c.memProfilePath != "" {
		f, err := os.Create(c.memProfilePath)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC()
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
		fmt.Fprintf(out, "Memory profile written to %s\n", c.memProfilePath)
	}

	c.profiler.Summarize(out)
	return nil
}
