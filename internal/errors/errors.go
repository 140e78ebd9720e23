package errors

import (
	"errors"
	"fmt"
)

// Common error types for the verification flow
var (
	// OAuth transaction errors
	ErrInvalidState = errors.New("invalid state")
	ErrNoCode       = errors.New("no code provided")

	// Upstream authentication errors
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrCallbackFailed       = errors.New("failed to process callback")

	// Session errors
	ErrMissingResidentialStatus = errors.New("missing residential status")
	ErrMissingRedditUsername    = errors.New("missing reddit username")
	ErrMissingTargetSubreddit   = errors.New("missing target subreddit")

	// Moderator onboarding errors
	ErrSubredditNotAuthorized = errors.New("subreddit not authorized")
	ErrNotModerator           = errors.New("user is not a moderator of the target subreddit")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
