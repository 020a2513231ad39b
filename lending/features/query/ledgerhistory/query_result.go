package ledgerhistory

import (
	"github.com/AntonStoeckl/library-lending-go/lending/ledger"
)

// LedgerHistory is one page of ledger entries. Total counts all matching entries, not just this page.
type LedgerHistory struct {
	Entries []ledger.Entry
	Total   int
	Limit   int
	Offset  int
}
