// Package repository holds the MySQL repositories of the reservation
// service.  Sentinel errors let handlers distinguish failure scenarios
// without inspecting driver errors.
package repository

import "errors"

// ErrNotFound is returned when the requested row does not exist or is not
// visible to the caller.  Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")
