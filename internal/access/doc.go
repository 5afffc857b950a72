// Package access decides what the current session may see and do.
//
// Every view consults Evaluate and Guard rather than inspecting roles
// directly. Both are pure functions of the Subject and Policy passed in, so
// callers re-evaluate them on each render instead of caching results across
// login or logout.
package access
