package seqgo

import "github.com/dustin/go-humanize"

// PrettyInt formats n with comma-grouped thousands, e.g. 1234567 as
// "1,234,567".
func PrettyInt(n int) string {
	return humanize.Comma(int64(n))
}
