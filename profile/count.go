package profile

import (
	"errors"
	"fmt"
)

// DefaultVariance is the tolerance band applied to call-count comparisons.
const DefaultVariance = 0.05

// CallCounter is the measurement capability: anything that reports a
// monotonically increasing number of calls. dialect/sql.CountingDriver
// implements it.
type CallCounter interface {
	Calls() int64
}

// CounterFunc adapts a plain function to the CallCounter interface.
type CounterFunc func() int64

// Calls returns the current count.
func (f CounterFunc) Calls() int64 { return f() }

// Skip conditions. Both mean the check cannot run; they are reported, never
// silently treated as a pass.
var (
	// ErrNoStats is returned when no baseline exists for the test on this
	// platform and write mode is off.
	ErrNoStats = errors.New("profile: no profiling stats available on this platform for this test")

	// ErrNoCounter is returned when no measurement capability was supplied.
	ErrNoCounter = errors.New("profile: no call counter available")
)

// IsSkip reports whether the error means the check should be skipped rather
// than failed.
func IsSkip(err error) bool {
	return errors.Is(err, ErrNoStats) || errors.Is(err, ErrNoCounter)
}

// RegressionError reports a call count outside the tolerance band of its
// recorded baseline.
type RegressionError struct {
	TestKey  string
	Actual   int
	Expected int
	Variance float64
	Platform string
	Lineno   int // source line of the baseline, 0 if unknown
}

// Error returns the error string.
func (e *RegressionError) Error() string {
	msg := fmt.Sprintf(
		"profile: %s: function call count %d not within %v%% of expected %d, platform %s",
		e.TestKey, e.Actual, e.Variance*100, e.Expected, e.Platform,
	)
	if e.Lineno > 0 {
		msg += fmt.Sprintf(" (recorded at line %d)", e.Lineno)
	}
	return msg + ". Rerun with QUILL_WRITE_PROFILES set to regenerate this callcount."
}

// Sample is an in-flight measurement: the counter value was captured on
// Start, and Done closes the region and checks the delta.
type Sample struct {
	stats    *StatsFile
	key      string
	counter  CallCounter
	variance float64
	start    int64
}

// SampleOption configures a Sample.
type SampleOption func(*Sample)

// WithVariance overrides the tolerance band for one measurement.
func WithVariance(v float64) SampleOption {
	return func(s *Sample) {
		s.variance = v
	}
}

// Start opens a measured region for the given test key. It returns a skip
// condition when no counter was supplied, or when no baseline exists and
// write mode is off.
func (s *StatsFile) Start(testKey string, c CallCounter, opts ...SampleOption) (*Sample, error) {
	if c == nil {
		return nil, ErrNoCounter
	}
	if !s.HasStats(testKey) && !s.write {
		return nil, fmt.Errorf("%w. Run with QUILL_WRITE_PROFILES set to add statistics to %s for this platform", ErrNoStats, s.ShortName())
	}
	sm := &Sample{
		stats:    s,
		key:      testKey,
		counter:  c,
		variance: DefaultVariance,
		start:    c.Calls(),
	}
	for _, opt := range opts {
		opt(sm)
	}
	return sm, nil
}

// Done closes the measured region and checks the observed call count
// against the baseline at the current cursor position. A count with no
// historical slot is recorded as a new baseline point and passes. A
// mismatch beyond the tolerance band is re-baselined in write mode, or
// returned as a RegressionError otherwise.
func (sm *Sample) Done() error {
	callcount := int(sm.counter.Calls() - sm.start)
	expected, lineno, ok, err := sm.stats.Result(sm.key, callcount)
	if err != nil {
		return err
	}
	if !ok {
		// New measurement point, nothing to compare against.
		return nil
	}
	deviance := int(float64(callcount) * sm.variance)
	failed := abs(callcount-expected) > deviance
	if failed || sm.stats.forceWrite {
		if sm.stats.write {
			return sm.stats.Replace(sm.key, callcount)
		}
		return &RegressionError{
			TestKey:  sm.key,
			Actual:   callcount,
			Expected: expected,
			Variance: sm.variance,
			Platform: sm.stats.platform,
			Lineno:   lineno,
		}
	}
	return nil
}

// CountFunctions runs fn inside a measured region and checks its call count,
// combining Start and Done.
func (s *StatsFile) CountFunctions(testKey string, c CallCounter, fn func() error, opts ...SampleOption) error {
	sm, err := s.Start(testKey, c, opts...)
	if err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}
	return sm.Done()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
