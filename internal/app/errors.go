package app

import "errors"

// Operation errors. The messages are part of the API contract: the HTTP
// layer serializes them verbatim into {"error": ...} bodies, so they
// keep the exact legacy wording and capitalization.
var (
	ErrLibraryNotFound = errors.New("Library not found")
	ErrBookNotFound    = errors.New("Book not found")
	ErrMemberNotFound  = errors.New("Member not found")

	// ErrNotInLibrary covers lend/return scope failures: the book or the
	// member is not associated with the addressed library.
	ErrNotInLibrary = errors.New("Book or member not found in this library")

	ErrAlreadyBorrowed  = errors.New("Book is already borrowed")
	ErrNotLibraryMember = errors.New("Member does not belong to this library")

	// ErrNoBooks is returned for a library with zero associated books.
	// Listing members of an empty library succeeds with an empty list;
	// listing books does not. The asymmetry is inherited from the
	// original service and kept for compatibility.
	ErrNoBooks = errors.New("No books found for this library")

	ErrInvalidName       = errors.New("Invalid name")
	ErrInvalidPassword   = errors.New("Invalid password")
	ErrInvalidMemberName = errors.New("Invalid member name")
	ErrMissingBookFields = errors.New("Missing required book fields")

	ErrLoginFieldsRequired = errors.New("Library ID and password are required")
	ErrBadCredentials      = errors.New("Invalid Library ID or password")
)
