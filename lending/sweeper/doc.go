// Package sweeper runs the periodic background work of the lending system.
//
// The expiry sweep finds READY reservations whose hold ran out and expires each one with its own
// conditional append, which also hands the copy to the next patron in the queue. The due-soon run
// reminds patrons of loans that fall due within a window, at most once per loan and due date.
//
// Several instances may sweep at the same time without harm, since every expiry is a conditional
// transition. An optional Locker still keeps them from doing the same work twice.
package sweeper
