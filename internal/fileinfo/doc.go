// Package fileinfo holds the per-dataset state shared by every read: the
// sample and variant counts, ploidy, the selection stack and the indices
// that are built lazily on first use.
//
// A FileContext is bound to one arraystore.Root at a time. ResetRoot
// rebinds it; when the root identity changes every cache is dropped.
package fileinfo
