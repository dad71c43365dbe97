package service

import "errors"

var (
	// ErrEmailTaken signals a duplicate registration (case-insensitive).
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials is the single login failure: unknown email and
	// wrong password are indistinguishable to callers.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidToken covers every authentication failure on a presented
	// token, including a valid token whose user no longer exists.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrBlogNotFound covers missing posts, unpublished posts on public
	// reads, and ownership mismatches on writes.
	ErrBlogNotFound = errors.New("blog not found")
)
