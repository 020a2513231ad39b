// Command lendingd runs the library lending engine: the HTTP API, the expiry sweeper and the
// due-soon reminders, on PostgreSQL or SQLite.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
