package salloc

import "github.com/pkg/errors"

// CapacityError is the error returned from arena.NewHeap when the requested heap
// capacity cannot be backed by a buffer
var CapacityError error = errors.New("heap capacity must be positive and addressable")

// ZeroSizeError is the error returned from allocation methods when the requested
// payload size is zero or negative
var ZeroSizeError error = errors.New("allocation size must be positive")

// SizeTooLargeError is the error returned from allocation methods when the requested
// payload size exceeds the heap capacity
var SizeTooLargeError error = errors.New("allocation size exceeds heap capacity")

// ZeroAlignmentError is the error returned from allocation methods when the requested
// alignment is zero
var ZeroAlignmentError error = errors.New("alignment must not be zero")

// OutOfMemoryError is the error returned from allocation methods when no free run of
// bytes large enough for the request exists in the heap
var OutOfMemoryError error = errors.New("no suitable free region in heap")

// NotInitializedError is the error returned from reallocation methods when the heap
// has not yet serviced any allocation attempt
var NotInitializedError error = errors.New("heap has not serviced any allocation yet")

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")
