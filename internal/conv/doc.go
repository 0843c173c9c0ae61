// Package conv converts between Go's int and the fixed-width integers of
// the on-disk array format, failing instead of wrapping around.
//
// Loop indices already bounded by a dimension use plain casts.
package conv
