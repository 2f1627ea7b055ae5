package trace

import (
	"fmt"

	"github.com/cockroachdb/errors"

	"github.com/joshuapare/heapkit/alloc"
)

// Heap is the subset of *alloc.Heap a replay drives.
type Heap interface {
	Alloc(size int) (alloc.Ptr, error)
	Free(p alloc.Ptr) error
	Reset() error
	BlockOf(p alloc.Ptr) (alloc.Block, error)
	String() string
}

// Step is the outcome of one operation.
type Step struct {
	Index  int
	Op     Op
	Ptr    alloc.Ptr   // alloc result, or the released pointer
	Block  alloc.Block // block behind Ptr after the step
	Err    error       // error returned by the heap
	Blocks string      // heap rendering after the step
}

// Result collects the steps of a replay.
type Result struct {
	Name  string
	Steps []Step
}

// Failed returns the number of steps whose heap call returned an error.
func (r *Result) Failed() int {
	n := 0
	for _, s := range r.Steps {
		if s.Err != nil {
			n++
		}
	}
	return n
}

// Replay runs tr against h from its current state. onStep, when non-nil, is
// called after every step. Replay stops at the first failed expectation and
// returns the steps so far with an error marked ErrExpectation. A heap error
// on a step without expect_error is recorded in the step, not returned.
func Replay(h Heap, tr *Trace, onStep func(Step)) (*Result, error) {
	res := &Result{Name: tr.Name}
	labels := make(map[string]alloc.Ptr)

	for i, op := range tr.Ops {
		st := Step{Index: i + 1, Op: op}
		reused, hasReused := labels[op.SameAs]
		switch op.Kind() {
		case "alloc":
			st.Ptr, st.Err = h.Alloc(op.Alloc)
			if st.Err == nil && op.Label != "" {
				labels[op.Label] = st.Ptr
			}
		case "free":
			p, ok := labels[op.Free]
			if !ok {
				return res, errors.Wrapf(ErrInvalidTrace, "step %d: unknown label %q", st.Index, op.Free)
			}
			st.Ptr = p
			st.Err = h.Free(p)
		case "reset":
			st.Err = h.Reset()
		default:
			return res, errors.Wrapf(ErrInvalidTrace, "step %d: no operation", st.Index)
		}
		if st.Ptr != alloc.Nil {
			if b, err := h.BlockOf(st.Ptr); err == nil {
				st.Block = b
			}
		}
		st.Blocks = h.String()

		res.Steps = append(res.Steps, st)
		if onStep != nil {
			onStep(st)
		}
		if msg := check(st, reused, hasReused); msg != "" {
			return res, errors.Mark(
				errors.Newf("step %d (%s): %s", st.Index, op, errors.Safe(msg)),
				ErrExpectation)
		}
	}
	return res, nil
}

// check returns a description of the first unmet expectation of st.
func check(st Step, reused alloc.Ptr, hasReused bool) string {
	op := st.Op
	if op.ExpectError != "" {
		want := expectErrors[op.ExpectError]
		if !errors.Is(st.Err, want) {
			return fmt.Sprintf("expected %s, got %v", op.ExpectError, st.Err)
		}
		return ""
	}
	if st.Err != nil {
		// Unexpected heap errors are surfaced only when the step asserts on
		// its result.
		if op.ExpectSize != 0 || op.SameAs != "" || op.ExpectClass != nil || op.ExpectBlocks != "" {
			return fmt.Sprintf("unexpected error: %v", st.Err)
		}
		return ""
	}
	if op.ExpectSize != 0 && st.Block.Size != op.ExpectSize {
		return fmt.Sprintf("expected size %d, got %d", op.ExpectSize, st.Block.Size)
	}
	if op.SameAs != "" && !hasReused {
		return fmt.Sprintf("label %s was never allocated", op.SameAs)
	}
	if hasReused && reused != st.Ptr {
		return fmt.Sprintf("expected reuse of %s at %d, got %d", op.SameAs, reused, st.Ptr)
	}
	if op.ExpectClass != nil && st.Block.Class != *op.ExpectClass {
		return fmt.Sprintf("expected class %d, got %d", *op.ExpectClass, st.Block.Class)
	}
	if op.ExpectBlocks != "" && st.Blocks != op.ExpectBlocks {
		return fmt.Sprintf("expected blocks %s, got %s", op.ExpectBlocks, st.Blocks)
	}
	return ""
}
