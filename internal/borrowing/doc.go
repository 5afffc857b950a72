// Package borrowing classifies raw borrowing records for display.
//
// Status is always derived from the record and an injected clock; nothing
// here caches a classification or mutates the records it is given.
package borrowing
