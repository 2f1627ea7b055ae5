package alloc

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
)

type liveAlloc struct {
	p    Ptr
	size int
	fill byte
}

// Test_Property_RandomWorkload drives every strategy with a seeded random
// mix of allocations and releases, checking invariants after each step and
// that no payload is ever overwritten by heap bookkeeping or another block.
func Test_Property_RandomWorkload(t *testing.T) {
	for _, s := range Strategies {
		t.Run(s.String(), func(t *testing.T) {
			rng := rand.New(rand.NewPCG(42, uint64(s)))
			h := newTestHeap(t, s)
			var live []liveAlloc

			for step := 0; step < 1500; step++ {
				if len(live) > 0 && rng.IntN(100) < 45 {
					i := rng.IntN(len(live))
					la := live[i]
					buf := h.Payload(la.p)
					require.Len(t, buf, la.size, "step %d", step)
					for j, c := range buf {
						require.Equal(t, la.fill, c, "step %d: payload %d byte %d clobbered", step, la.p, j)
					}
					require.NoError(t, h.Free(la.p), "step %d", step)
					live[i] = live[len(live)-1]
					live = live[:len(live)-1]
				} else {
					n := 1 + rng.IntN(200)
					p, err := h.Alloc(n)
					require.NoError(t, err, "step %d", step)
					b := blockOf(t, h, p)
					require.Equal(t, (n+W-1)/W*W, b.Size, "step %d", step)
					require.True(t, b.Used)

					fill := byte(step)
					buf := h.Payload(p)
					for j := range buf {
						buf[j] = fill
					}
					live = append(live, liveAlloc{p: p, size: b.Size, fill: fill})
				}
				requireInvariants(t, h)
			}

			require.Equal(t, len(live), h.Usage().UsedBlocks)
			for _, la := range live {
				require.NoError(t, h.Free(la.p))
			}
			requireInvariants(t, h)
			require.Zero(t, h.Usage().UsedBlocks)
		})
	}
}
