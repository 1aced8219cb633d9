package domain

import "errors"

// ErrNotFound is returned when a folder or item reference does not resolve.
// List-style callers downgrade it to an empty result; direct fetches
// surface it.
var ErrNotFound = errors.New("folder or item not found")

// ErrMalformedMessage is returned when supplied MIME content cannot be
// parsed. Nothing is stored or queued in that case.
var ErrMalformedMessage = errors.New("malformed message content")
