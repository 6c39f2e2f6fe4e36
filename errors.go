package synclab

import "errors"

// ErrEmpty is returned by a non-blocking pop/dequeue on an empty stack or
// queue.
var ErrEmpty = errors.New("synclab: empty")

// ErrTimeout is returned when a deadline elapses inside a Try* or WaitUntil
// call before the operation could complete.
var ErrTimeout = errors.New("synclab: timeout")

// ErrNotOwner is returned by ReentrantLock.Unlock when the caller does not
// hold the lock, or holds it zero times.
var ErrNotOwner = errors.New("synclab: unlock by non-owner")

// ErrExhausted is returned when a hazard-pointer domain has no free
// reservation slot left for the calling thread context.
var ErrExhausted = errors.New("synclab: reservation slots exhausted")
