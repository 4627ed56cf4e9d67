package console

import (
	"fmt"
	"io"

	"golang.org/x/time/rate"

	"github.com/CharlesAverill/SuperML/internal/ast"
	"github.com/CharlesAverill/SuperML/internal/interp"
)

// Tracer prints interpreter steps, dropping those that arrive faster than
// its limit allows.
type Tracer struct {
	out     io.Writer
	limiter *rate.Limiter
	shown   int
	dropped int
}

// NewTracer returns a tracer that prints at most perSecond steps per second
// after an initial burst. perSecond <= 0 prints every step.
func NewTracer(out io.Writer, perSecond float64) *Tracer {
	limit := rate.Inf
	burst := 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &Tracer{out: out, limiter: rate.NewLimiter(limit, burst)}
}

// Step is an interp.Config.OnStep callback.
func (t *Tracer) Step(s interp.State) {
	if !t.limiter.Allow() {
		t.dropped++
		return
	}
	t.shown++
	fmt.Fprintf(t.out, "[step %d, fuel %d] %s\n", s.Step, s.FuelLeft, ast.Print(s.Term))
}

// Status is an interp.Config.OnStatus callback.
func (t *Tracer) Status(p interp.Phase) {
	fmt.Fprintf(t.out, "-- %s\n", p)
}

// Flush reports how many steps were not printed.
func (t *Tracer) Flush() {
	if t.dropped > 0 {
		fmt.Fprintf(t.out, "... %d of %d steps not shown\n", t.dropped, t.dropped+t.shown)
	}
}

// Shown returns the number of steps printed so far.
func (t *Tracer) Shown() int { return t.shown }

// Dropped returns the number of steps skipped so far.
func (t *Tracer) Dropped() int { return t.dropped }
