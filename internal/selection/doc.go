// Package selection holds the sample and variant filters of an open
// dataset.
//
// A Mask is a fixed-length boolean vector backed by a roaring bitmap.
// Stack keeps nested (sample, variant) mask pairs; the top of the stack is
// the active selection that every read consults.
package selection
