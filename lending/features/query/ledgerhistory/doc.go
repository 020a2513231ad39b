// Package ledgerhistory pages through the ledger entries of one patron, newest first.
package ledgerhistory
