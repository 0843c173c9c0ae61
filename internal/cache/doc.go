// Package cache provides a byte-budgeted LRU cache for immutable blocks.
//
// Blob stores wrap remote objects with the cache so repeated reads of the
// same container region are served from memory. Memory accounting can be
// shared with other consumers through a resource.Controller.
package cache
