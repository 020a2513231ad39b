// Package config loads the lendingd settings from the environment and opens the connections they name.
//
// Load reads an optional .env file first. Variables already set in the environment win over the file.
// The Open* and New* functions build connection pools with the pool sizes lendingd runs with, and
// ConnectWithRetry applies the startup connection policy: bounded exponential backoff, then give up.
package config
