// Package trace describes allocator workloads as YAML and replays them
// against a heap, checking per-step expectations.
package trace

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/alloc"
)

var (
	// ErrInvalidTrace indicates a trace that cannot be replayed as written.
	ErrInvalidTrace = errors.New("trace: invalid trace")

	// ErrExpectation indicates a step whose outcome differs from its
	// expectation.
	ErrExpectation = errors.New("trace: expectation failed")

	// ErrUnknownScenario indicates a built-in scenario name that does not exist.
	ErrUnknownScenario = errors.New("trace: unknown scenario")
)

// Trace is a named sequence of heap operations.
type Trace struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Strategy    string `yaml:"strategy,omitempty"`
	Ops         []Op   `yaml:"ops"`
}

// Op is one step. Exactly one of Alloc, Free or Reset is set; the expect
// fields are optional.
type Op struct {
	Alloc int    `yaml:"alloc,omitempty"`
	Free  string `yaml:"free,omitempty"`
	Reset bool   `yaml:"reset,omitempty"`
	Label string `yaml:"label,omitempty"`

	// ExpectSize is the block size after the step: the new block for alloc,
	// the released (possibly merged) block for free.
	ExpectSize int `yaml:"expect_size,omitempty"`
	// SameAs names an earlier allocation whose header the new block reuses.
	SameAs string `yaml:"same_as,omitempty"`
	// ExpectError is one of out-of-memory, invalid-release or invalid-size.
	ExpectError string `yaml:"expect_error,omitempty"`
	// ExpectClass is the segregated bucket of the new block.
	ExpectClass *int `yaml:"expect_class,omitempty"`
	// ExpectBlocks is the heap rendering after the step.
	ExpectBlocks string `yaml:"expect_blocks,omitempty"`
}

// Kind names the operation.
func (o Op) Kind() string {
	switch {
	case o.Alloc != 0:
		return "alloc"
	case o.Free != "":
		return "free"
	case o.Reset:
		return "reset"
	}
	return "none"
}

func (o Op) String() string {
	switch o.Kind() {
	case "alloc":
		if o.Label != "" {
			return fmt.Sprintf("alloc %d as %s", o.Alloc, o.Label)
		}
		return fmt.Sprintf("alloc %d", o.Alloc)
	case "free":
		return "free " + o.Free
	case "reset":
		return "reset"
	}
	return "none"
}

var expectErrors = map[string]error{
	"out-of-memory":   alloc.ErrOutOfMemory,
	"invalid-release": alloc.ErrInvalidRelease,
	"invalid-size":    alloc.ErrInvalidSize,
}

// Load reads and validates a trace file.
func Load(path string) (*Trace, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "trace: read")
	}
	tr, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "trace: %s", path)
	}
	return tr, nil
}

// Parse decodes a YAML trace. Unknown keys are rejected.
func Parse(data []byte) (*Trace, error) {
	var tr Trace
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tr); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.Wrap(ErrInvalidTrace, "empty document")
		}
		return nil, errors.Mark(errors.Wrap(err, "trace: decode"), ErrInvalidTrace)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	return &tr, nil
}

// Validate checks the trace is well formed: one operation per step, a
// known strategy, and labels defined before use. Negative and zero alloc
// sizes cannot be expressed; invalid sizes are exercised through the API.
func (tr *Trace) Validate() error {
	if tr.Name == "" {
		return errors.Wrap(ErrInvalidTrace, "missing name")
	}
	if tr.Strategy != "" {
		if _, err := alloc.ParseStrategy(tr.Strategy); err != nil {
			return errors.Mark(errors.Wrapf(err, "trace %s", tr.Name), ErrInvalidTrace)
		}
	}
	labels := make(map[string]bool)
	for i, op := range tr.Ops {
		fail := func(format string, args ...any) error {
			return errors.Wrapf(ErrInvalidTrace, "step %d (%s): %s", i+1, op, fmt.Sprintf(format, args...))
		}
		n := 0
		for _, set := range []bool{op.Alloc != 0, op.Free != "", op.Reset} {
			if set {
				n++
			}
		}
		if n != 1 {
			return fail("exactly one of alloc, free or reset is required")
		}
		if op.Alloc < 0 {
			return fail("negative size")
		}
		if op.Free != "" && !labels[op.Free] {
			return fail("unknown label %q", op.Free)
		}
		if op.SameAs != "" {
			if op.Kind() != "alloc" {
				return fail("same_as only applies to alloc")
			}
			if !labels[op.SameAs] {
				return fail("unknown label %q", op.SameAs)
			}
		}
		if op.ExpectError != "" {
			if _, ok := expectErrors[op.ExpectError]; !ok {
				return fail("unknown expect_error %q", op.ExpectError)
			}
		}
		if op.Label != "" {
			if op.Kind() != "alloc" {
				return fail("label only applies to alloc")
			}
			labels[op.Label] = true
		}
	}
	return nil
}

// StrategyOr returns the trace's strategy, or def when it names none.
func (tr *Trace) StrategyOr(def alloc.Strategy) alloc.Strategy {
	if tr.Strategy == "" {
		return def
	}
	s, err := alloc.ParseStrategy(tr.Strategy)
	if err != nil {
		return def
	}
	return s
}

// WithoutExpectations returns a copy of tr with every expectation cleared,
// for replaying a trace under strategies it was not written for.
func (tr *Trace) WithoutExpectations() *Trace {
	out := *tr
	out.Ops = make([]Op, len(tr.Ops))
	for i, op := range tr.Ops {
		out.Ops[i] = Op{Alloc: op.Alloc, Free: op.Free, Reset: op.Reset, Label: op.Label}
	}
	return &out
}
