package repository

import "errors"

// ErrNotFound covers both a genuinely missing document and, for
// owner-scoped lookups, a document owned by someone else. Callers cannot
// tell the two apart.
var ErrNotFound = errors.New("document not found")

// ErrConflict reports a write rejected because a document with the same
// key already exists.
var ErrConflict = errors.New("document already exists")
