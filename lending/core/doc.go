// Package core contains the domain events and the pure building blocks of the lending domain:
// a public library lending books to patrons, with FIFO reservation queues, expiring holds, and late fees.
//
// Events represent meaningful business occurrences like BookBorrowed or ReservationBecameReady
// rather than generic create/update operations. All of them implement DomainEvent.
//
// In Domain-Driven Design or Hexagonal Architecture terminology, this would be
// called the 'domain' layer.
package core
