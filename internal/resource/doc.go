// Package resource bounds the memory, worker and IO budget shared by open
// containers and block caches.
//
// A nil *Controller is valid and imposes no limits, so callers can pass one
// through unconditionally.
package resource
