package service

import "errors"

// Error taxonomy shared by the services. Handlers match these with errors.Is
// and translate them to client-facing responses; none of them is ever a 5xx.
var (
	// signup / user directory
	ErrReservedUsername  = errors.New("username 'me' is reserved")
	ErrInvalidUsername   = errors.New("username may only contain letters, digits and .@+-_")
	ErrDuplicateIdentity = errors.New("username or email already taken")

	// token exchange
	ErrUnknownUser = errors.New("user not found")
	ErrInvalidCode = errors.New("invalid confirmation code")

	// catalog
	ErrInvalidSlug      = errors.New("slug may only contain letters, digits, hyphens and underscores")
	ErrDuplicateSlug    = errors.New("slug already in use")
	ErrUnknownReference = errors.New("unknown category or genre slug")
	ErrYearInFuture     = errors.New("year cannot be greater than the current year")

	// reviews
	ErrDuplicateReview = errors.New("a review for this title already exists")
)
