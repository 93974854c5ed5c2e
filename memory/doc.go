// Package memory contains concrete Memory implementations. The service
// interface and the Entry/Marker types reside in the core package. Import
// github.com/storyloom/storyloom/core and depend on core.Memory in your
// code; select an implementation (like the in-memory store below, or the
// Redis store in the redis subpackage) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (document stores, vector indexes, etc.) to be added without
// introducing dependency cycles.
package memory
