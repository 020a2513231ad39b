// Package loansduesoon lists the open loans of all patrons that fall due within a time window.
package loansduesoon
