// Package synclab is the root of a library of non-blocking and blocking
// concurrent synchronization primitives. This package holds the shared
// building blocks (Backoff, TaggedPointer, MarkablePointer, TicketLock, the
// sentinel errors and the ambient logger). The family of mutual-exclusion
// locks (spin, queue-based, timeout, composite), the hand-built condition
// variable, reader/writer and reentrant locks and the semaphores live in the
// lock subpackage; concurrent containers built on top of these — sorted
// sets, FIFO queues, LIFO stacks — live in the set, queue and stack
// subpackages.
//
// Lock types must not be copied after first use: each embeds an
// internal/rt.NoCopy marker so `go vet -copylocks` catches accidental
// copies.
package synclab
