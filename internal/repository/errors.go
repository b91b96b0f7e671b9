package repository

import "github.com/alexanderramin/taskmate/internal/domain"

// ErrNotFound is returned when a row lookup matches nothing. It is the
// domain sentinel so services can pass it through unchanged.
var ErrNotFound = domain.ErrNotFound
