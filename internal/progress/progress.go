// Package progress renders a text progress bar for long variant loops.
//
// A Bar advances in at most 100 visible steps. Intermediate lines are
// printed at most once every five seconds; the first and the final update
// are always printed.
//
//	[==========>.......................................] 21%, ETC: 3.2m
package progress

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	barWidth   = 50
	etcWindow  = 20
	maxSteps   = 100
	throttle   = 5 * time.Second
	secsMinute = 60.0
	secsHour   = 60 * secsMinute
	secsDay    = 24 * secsHour
	secsYear   = 365 * secsDay
)

// ErrInvalidCount is returned for a negative total.
var ErrInvalidCount = errors.New("'count' should be greater than zero")

// Reporter receives one Forward call per completed unit of work.
type Reporter interface {
	Forward()
}

// Nop discards progress.
type Nop struct{}

// Forward implements Reporter.
func (Nop) Forward() {}

type mark struct {
	frac float64
	at   time.Time
}

// Option configures a Bar.
type Option func(*Bar)

// WithClock replaces time.Now for ETC estimates.
func WithClock(now func() time.Time) Option {
	return func(b *Bar) { b.now = now }
}

// Bar prints progress of a known number of steps to a writer.
// It is not safe for concurrent use.
type Bar struct {
	w       io.Writer
	total   int64
	counter int64
	verbose bool

	start float64
	step  float64
	hit   int64

	marks     []mark
	sometimes rate.Sometimes
	now       func() time.Time
}

// New creates a bar for count steps and prints its initial state when
// verbose is set.
func New(w io.Writer, count int64, verbose bool, opts ...Option) (*Bar, error) {
	if count < 0 {
		return nil, ErrInvalidCount
	}
	b := &Bar{
		w:         w,
		total:     count,
		verbose:   verbose,
		sometimes: rate.Sometimes{Interval: throttle},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	if count > 0 {
		n := min(int64(maxSteps), count)
		b.start = float64(count) / float64(n)
		b.step = b.start
		b.hit = int64(b.start)
	}
	b.marks = append(b.marks, mark{frac: 0, at: b.now()})
	b.show()
	return b, nil
}

// Counter returns the number of completed steps.
func (b *Bar) Counter() int64 { return b.counter }

// Forward records one completed step.
func (b *Bar) Forward() {
	b.counter++
	if b.total <= 0 || b.counter < b.hit {
		return
	}
	b.start += b.step
	b.hit = min(int64(b.start), b.total)
	b.show()
}

func (b *Bar) show() {
	if !b.verbose || b.total <= 0 {
		return
	}
	p := float64(b.counter) / float64(b.total)
	bar := Render(p, b.counter > 0)

	n := max(len(b.marks)-etcWindow, 0)
	now := b.now()
	b.marks = append(b.marks, mark{frac: p, at: now})
	secs := math.NaN()
	if diff := p - b.marks[n].frac; diff > 0 {
		secs = now.Sub(b.marks[n].at).Seconds() / diff * (1 - p)
	}

	if b.counter >= b.total {
		fmt.Fprintf(b.w, "\r[%s] 100%%, completed      \n", bar)
		return
	}
	b.sometimes.Do(func() {
		fmt.Fprintf(b.w, "\r[%s] %2.0f%%, ETC: %s", bar, p*100, FormatETC(secs))
	})
}

// Render draws a bar for fraction p. With started set, the head of the
// bar is marked with '>' until it is full.
func Render(p float64, started bool) string {
	n := min(max(int(math.Round(p*barWidth)), 0), barWidth)
	var sb strings.Builder
	sb.WriteString(strings.Repeat("=", n))
	if started && n < barWidth {
		sb.WriteByte('>')
		n++
	}
	sb.WriteString(strings.Repeat(".", barWidth-n))
	return sb.String()
}

// FormatETC renders an estimate in seconds with the largest fitting unit.
// Estimates that are not finite print as "---".
func FormatETC(secs float64) string {
	switch {
	case math.IsNaN(secs) || math.IsInf(secs, 0):
		return "---    "
	case secs < secsMinute:
		return fmt.Sprintf("%.0fs  ", secs)
	case secs < secsHour:
		return fmt.Sprintf("%.1fm  ", secs/secsMinute)
	case secs < secsDay:
		return fmt.Sprintf("%.1fh  ", secs/secsHour)
	case secs < secsYear:
		return fmt.Sprintf("%.1fd  ", secs/secsDay)
	default:
		return fmt.Sprintf("%.1f years  ", secs/secsYear)
	}
}
