// Package testdoubles provides spies for the logging and metrics seams of the event store engines,
// the command handlers, and the sweeper.
package testdoubles
