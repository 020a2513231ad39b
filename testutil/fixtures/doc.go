// Package fixtures seeds lending histories into an event store for handler and service tests.
package fixtures
