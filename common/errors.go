package common

import "errors"

var (
	// ErrNotFound reports a missing page, section, item or navigation entry.
	ErrNotFound = errors.New("not found")
	// ErrSlugConflict reports a page slug already used by another page.
	ErrSlugConflict = errors.New("slug already taken")
	// ErrNavigationMissing reports that the named navigation container was never seeded.
	ErrNavigationMissing = errors.New("navigation not found")
	// ErrInvalid reports input rejected before touching the database.
	ErrInvalid = errors.New("invalid input")
	// ErrIntegrity reports a broken ordering or reference invariant. It is a bug
	// or data corruption signal, never an expected user failure.
	ErrIntegrity = errors.New("integrity violation")
)
