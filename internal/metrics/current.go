package metrics

import (
	"math"

	"github.com/san-kum/rlsim/internal/dynamo"
)

// Peak tracks the largest |i| seen.
type Peak struct {
	name string
	peak float64
}

func NewPeak() *Peak {
	return &Peak{name: "peak_current"}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x dynamo.State, u dynamo.Control, t float64) {
	p.peak = math.Max(p.peak, math.Abs(x[0]))
}

func (p *Peak) Value() float64 { return p.peak }
func (p *Peak) Reset()         { p.peak = 0 }

// Mean is the sample average of i.
type Mean struct {
	name    string
	sum     float64
	samples int
}

func NewMean() *Mean {
	return &Mean{name: "mean_current"}
}

func (m *Mean) Name() string { return m.name }

func (m *Mean) Observe(x dynamo.State, u dynamo.Control, t float64) {
	m.sum += x[0]
	m.samples++
}

func (m *Mean) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Mean) Reset() {
	m.sum = 0
	m.samples = 0
}

// RMS is the root mean square of i.
type RMS struct {
	name    string
	sumSq   float64
	samples int
}

func NewRMS() *RMS {
	return &RMS{name: "rms_current"}
}

func (r *RMS) Name() string { return r.name }

func (r *RMS) Observe(x dynamo.State, u dynamo.Control, t float64) {
	r.sumSq += x[0] * x[0]
	r.samples++
}

func (r *RMS) Value() float64 {
	if r.samples == 0 {
		return 0
	}
	return math.Sqrt(r.sumSq / float64(r.samples))
}

func (r *RMS) Reset() {
	r.sumSq = 0
	r.samples = 0
}

// Ripple is max(i) - min(i) over the most recent period of the source.
// The extrema are kept in monotonic queues, so each sample costs amortized
// constant time.
type Ripple struct {
	name   string
	period float64
	hi, lo extremaQueue
}

func NewRipple(period float64) *Ripple {
	return &Ripple{
		name:   "ripple",
		period: period,
		hi:     extremaQueue{keep: func(old, cur float64) bool { return old > cur }},
		lo:     extremaQueue{keep: func(old, cur float64) bool { return old < cur }},
	}
}

func (r *Ripple) Name() string { return r.name }

func (r *Ripple) Observe(x dynamo.State, u dynamo.Control, t float64) {
	s := dynamo.Sample{Time: t, Current: x[0]}
	r.hi.push(s, t-r.period)
	r.lo.push(s, t-r.period)
}

func (r *Ripple) Value() float64 {
	hi, ok := r.hi.front()
	if !ok {
		return 0
	}
	lo, _ := r.lo.front()
	return hi - lo
}

func (r *Ripple) Reset() {
	r.hi.reset()
	r.lo.reset()
}

// extremaQueue holds the samples of a sliding window that can still become
// its extremum. keep(old, cur) reports whether old stays ahead of cur.
type extremaQueue struct {
	buf  []dynamo.Sample
	head int
	keep func(old, cur float64) bool
}

// push adds s and evicts samples older than cutoff. s itself always stays.
func (q *extremaQueue) push(s dynamo.Sample, cutoff float64) {
	for len(q.buf) > q.head && !q.keep(q.buf[len(q.buf)-1].Current, s.Current) {
		q.buf = q.buf[:len(q.buf)-1]
	}
	q.buf = append(q.buf, s)
	for q.head < len(q.buf)-1 && q.buf[q.head].Time < cutoff {
		q.head++
	}
	if q.head > 64 && q.head > len(q.buf)/2 {
		n := copy(q.buf, q.buf[q.head:])
		q.buf = q.buf[:n]
		q.head = 0
	}
}

func (q *extremaQueue) front() (float64, bool) {
	if q.head >= len(q.buf) {
		return 0, false
	}
	return q.buf[q.head].Current, true
}

func (q *extremaQueue) reset() {
	q.buf = q.buf[:0]
	q.head = 0
}
