// Package shell contains the imperative shell shared by the lending feature slices.
//
// It maps between domain events and the event store's StorableEvent DTOs, runs command
// handlers with retry on optimistic concurrency conflicts and transient store failures,
// and provides the observability helpers used by the observable wrappers.
package shell
