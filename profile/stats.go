package profile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// StatsFile stores per-platform call-count baselines in a line-oriented text
// file. Each data line is "test_key platform_key c1,c2,...,cn". The file is
// read fully on Open and rewritten in full on each mutation when write mode
// is active. It is meant to be hand-auditable and version-controlled, so
// writes are sorted for reproducible diffs and malformed lines are fatal.
//
// StatsFile targets a single test process; it holds no internal locking and
// is unsafe for concurrent writers sharing one file.
type StatsFile struct {
	fname      string
	write      bool
	forceWrite bool
	platform   string
	data       map[string]map[string]*record
}

// record holds the baseline state for one (test_key, platform_key) pair.
type record struct {
	counts  []int
	current int // cursor into counts, advanced by each Result call
	lineno  int // 1-based source line, set when read from file
}

// Option configures a StatsFile.
type Option func(*StatsFile)

// WithWrite enables write mode: new and corrected measurements are persisted
// back to the file immediately.
func WithWrite(w bool) Option {
	return func(s *StatsFile) {
		s.write = s.write || w
	}
}

// WithForceWrite enables force-write mode: measurements that fail comparison
// are silently overwritten instead of failing. Implies write mode.
func WithForceWrite(w bool) Option {
	return func(s *StatsFile) {
		s.forceWrite = s.forceWrite || w
		s.write = s.write || w
	}
}

// ParseError reports a malformed line in a stats file.
type ParseError struct {
	File   string
	Line   int // 1-based
	Reason string
}

// Error returns the error string.
func (e *ParseError) Error() string {
	return fmt.Sprintf("profile: %s:%d: %s", e.File, e.Line, e.Reason)
}

// Open reads the stats file at fname, keyed under the platform described by
// env. A missing file is not an error: it means no baselines exist yet and
// every check passes through as a new measurement. In write mode the file is
// rewritten immediately, for the case where recorded entries changed form.
func Open(fname string, env Env, opts ...Option) (*StatsFile, error) {
	abs, err := filepath.Abs(fname)
	if err != nil {
		return nil, err
	}
	s := &StatsFile{
		fname:    abs,
		platform: env.PlatformKey(),
		data:     make(map[string]map[string]*record),
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.read(); err != nil {
		return nil, err
	}
	if s.write {
		if err := s.Save(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the absolute path of the backing file.
func (s *StatsFile) Path() string { return s.fname }

// ShortName returns the base name of the backing file, used in messages.
func (s *StatsFile) ShortName() string { return filepath.Base(s.fname) }

// PlatformKey returns the platform key all operations are scoped under.
func (s *StatsFile) PlatformKey() string { return s.platform }

// Writing reports whether write mode is active.
func (s *StatsFile) Writing() bool { return s.write }

// HasStats reports whether a baseline exists for the test key on the
// current platform. A test without a baseline is skippable, not failable.
func (s *StatsFile) HasStats(testKey string) bool {
	perFn, ok := s.data[testKey]
	if !ok {
		return false
	}
	_, ok = perFn[s.platform]
	return ok
}

// Result records a measurement for the test key and returns the historical
// value it should be compared against, if one exists at the current cursor
// position. When the cursor has run past the recorded counts, the
// measurement is appended as a new baseline point instead and ok is false.
// The cursor advances by one on every call; a test exercising the measured
// path several times per run checks each invocation against its own slot,
// in order. lineno points at the source line of the record for diagnostics.
func (s *StatsFile) Result(testKey string, callcount int) (expected, lineno int, ok bool, err error) {
	r := s.getOrCreate(testKey)
	defer func() { r.current++ }()
	if r.current >= len(r.counts) {
		r.counts = append(r.counts, callcount)
		if s.write {
			err = s.Save()
		}
		return 0, 0, false, err
	}
	return r.counts[r.current], r.lineno, true, nil
}

// Replace overwrites the measurement at the just-consumed cursor position
// with a new value, or the last recorded one when the cursor ran past the
// end. Used to re-baseline after an accepted mismatch.
func (s *StatsFile) Replace(testKey string, callcount int) error {
	r := s.getOrCreate(testKey)
	if r.current < len(r.counts) {
		r.counts[r.current-1] = callcount
	} else {
		r.counts[len(r.counts)-1] = callcount
	}
	if s.write {
		return s.Save()
	}
	return nil
}

func (s *StatsFile) getOrCreate(testKey string) *record {
	perFn, ok := s.data[testKey]
	if !ok {
		perFn = make(map[string]*record)
		s.data[testKey] = perFn
	}
	r, ok := perFn[s.platform]
	if !ok {
		r = &record{}
		perFn[s.platform] = r
	}
	return r
}

func (s *StatsFile) header() string {
	return fmt.Sprintf(
		"# %s\n"+
			"# This file is written out on a per-environment basis.\n"+
			"# For each profiled test, the corresponding function and\n"+
			"# environment is located within this file. If it doesn't exist,\n"+
			"# the test is skipped.\n"+
			"# If a callcount does exist, it is compared to what we received.\n"+
			"# Assertions are raised if the counts do not match.\n"+
			"#\n"+
			"# To add a new callcount test, use the call-count check and re-run\n"+
			"# the tests with QUILL_WRITE_PROFILES set - this file will be\n"+
			"# rewritten including the new count.\n"+
			"#\n",
		s.fname,
	)
}

// read parses the backing file into memory. Comment and blank lines are
// skipped; everything else must hold exactly three whitespace-separated
// tokens with a comma-separated integer list as the third.
func (s *StatsFile) read() error {
	f, err := os.Open(s.fname)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return &ParseError{
				File:   s.fname,
				Line:   lineno,
				Reason: fmt.Sprintf("expected 3 fields, got %d", len(fields)),
			}
		}
		testKey, platformKey := fields[0], fields[1]
		var counts []int
		for _, tok := range strings.Split(fields[2], ",") {
			c, err := strconv.Atoi(tok)
			if err != nil {
				return &ParseError{
					File:   s.fname,
					Line:   lineno,
					Reason: fmt.Sprintf("invalid call count %q", tok),
				}
			}
			counts = append(counts, c)
		}
		perFn, ok := s.data[testKey]
		if !ok {
			perFn = make(map[string]*record)
			s.data[testKey] = perFn
		}
		perFn[platformKey] = &record{counts: counts, lineno: lineno}
	}
	return scanner.Err()
}

// Save rewrites the whole backing file: header block, then one block per
// test key in ascending order, platform keys sorted within each block.
// Saving the same in-memory state twice produces byte-identical output.
func (s *StatsFile) Save() error {
	var buf bytes.Buffer
	buf.WriteString(s.header())
	testKeys := make([]string, 0, len(s.data))
	for k := range s.data {
		testKeys = append(testKeys, k)
	}
	sort.Strings(testKeys)
	for _, testKey := range testKeys {
		perFn := s.data[testKey]
		fmt.Fprintf(&buf, "\n# TEST: %s\n\n", testKey)
		platformKeys := make([]string, 0, len(perFn))
		for k := range perFn {
			platformKeys = append(platformKeys, k)
		}
		sort.Strings(platformKeys)
		for _, platformKey := range platformKeys {
			r := perFn[platformKey]
			counts := make([]string, len(r.counts))
			for i, c := range r.counts {
				counts[i] = strconv.Itoa(c)
			}
			fmt.Fprintf(&buf, "%s %s %s\n", testKey, platformKey, strings.Join(counts, ","))
		}
	}
	slog.Info("writing profile file", "path", s.fname)
	return os.WriteFile(s.fname, buf.Bytes(), 0o644)
}
