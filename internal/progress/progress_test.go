package progress

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	assert.Equal(t, strings.Repeat(".", 50), Render(0, false))
	assert.Equal(t, ">"+strings.Repeat(".", 49), Render(0, true))
	assert.Equal(t, strings.Repeat("=", 25)+">"+strings.Repeat(".", 24), Render(0.5, true))
	assert.Equal(t, strings.Repeat("=", 50), Render(1, true))
	assert.Len(t, Render(0.999, true), 50)
}

func TestFormatETC(t *testing.T) {
	assert.Equal(t, "---    ", FormatETC(math.NaN()))
	assert.Equal(t, "12s  ", FormatETC(12.2))
	assert.Equal(t, "1.5m  ", FormatETC(90))
	assert.Equal(t, "2.0h  ", FormatETC(7200))
	assert.Equal(t, "1.5d  ", FormatETC(1.5*86400))
	assert.Equal(t, "2.0 years  ", FormatETC(2*365*86400))
}

func TestBar_InvalidCount(t *testing.T) {
	_, err := New(&bytes.Buffer{}, -1, true)
	assert.ErrorIs(t, err, ErrInvalidCount)
}

func TestBar_Output(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Unix(0, 0)
	b, err := New(&buf, 4, true, WithClock(func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}))
	require.NoError(t, err)
	assert.Equal(t, "\r["+strings.Repeat(".", 50)+"]  0%, ETC: ---    ", buf.String())

	for range 4 {
		b.Forward()
	}
	assert.Equal(t, int64(4), b.Counter())

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\r["+strings.Repeat("=", 50)+"] 100%, completed      \n"), out)
	// intermediate updates fall inside the throttle interval
	assert.Equal(t, 2, strings.Count(out, "\r"))
}

func TestBar_Quiet(t *testing.T) {
	var buf bytes.Buffer
	b, err := New(&buf, 3, false)
	require.NoError(t, err)
	for range 3 {
		b.Forward()
	}
	assert.Empty(t, buf.String())
}

func TestBar_Steps(t *testing.T) {
	var buf bytes.Buffer
	b, err := New(&buf, 1000, false)
	require.NoError(t, err)
	assert.Equal(t, int64(10), b.hit)
	for range 10 {
		b.Forward()
	}
	assert.Equal(t, int64(20), b.hit)
}

func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	r.Forward()
}
