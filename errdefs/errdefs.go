// Package errdefs wraps errors into the classes understood by the HTTP
// layer. A wrapped error unwraps to both the matching containerd/errdefs
// sentinel and the original error, so errors.Is, errors.As and
// cerrdefs.Resolve all see through it.
package errdefs

import (
	cerrdefs "github.com/containerd/errdefs"
)

type errInvalidParameter struct{ error }

func (errInvalidParameter) InvalidParameter() {}

func (e errInvalidParameter) Unwrap() []error {
	return []error{cerrdefs.ErrInvalidArgument, e.error}
}

// InvalidParameter marks err as a client error (400).
func InvalidParameter(err error) error {
	if err == nil || cerrdefs.IsInvalidArgument(err) {
		return err
	}
	return errInvalidParameter{err}
}

type errUnauthorized struct{ error }

func (errUnauthorized) Unauthorized() {}

func (e errUnauthorized) Unwrap() []error {
	return []error{cerrdefs.ErrUnauthenticated, e.error}
}

// Unauthorized marks err as a missing or invalid identity (401).
func Unauthorized(err error) error {
	if err == nil || cerrdefs.IsUnauthorized(err) {
		return err
	}
	return errUnauthorized{err}
}

type errForbidden struct{ error }

func (errForbidden) Forbidden() {}

func (e errForbidden) Unwrap() []error {
	return []error{cerrdefs.ErrPermissionDenied, e.error}
}

// Forbidden marks err as a valid identity lacking permission (403).
func Forbidden(err error) error {
	if err == nil || cerrdefs.IsPermissionDenied(err) {
		return err
	}
	return errForbidden{err}
}

type errNotFound struct{ error }

func (errNotFound) NotFound() {}

func (e errNotFound) Unwrap() []error {
	return []error{cerrdefs.ErrNotFound, e.error}
}

// NotFound marks err as a missing resource (404).
func NotFound(err error) error {
	if err == nil || cerrdefs.IsNotFound(err) {
		return err
	}
	return errNotFound{err}
}

type errConflict struct{ error }

func (errConflict) Conflict() {}

func (e errConflict) Unwrap() []error {
	return []error{cerrdefs.ErrConflict, e.error}
}

// Conflict marks err as a conflict with the current resource state (409).
func Conflict(err error) error {
	if err == nil || cerrdefs.IsConflict(err) {
		return err
	}
	return errConflict{err}
}

type errTooManyRequests struct{ error }

func (e errTooManyRequests) Unwrap() []error {
	return []error{cerrdefs.ErrResourceExhausted, e.error}
}

// TooManyRequests marks err as a rate limit rejection (429).
func TooManyRequests(err error) error {
	if err == nil || cerrdefs.IsResourceExhausted(err) {
		return err
	}
	return errTooManyRequests{err}
}

type errSystem struct{ error }

func (errSystem) System() {}

func (e errSystem) Unwrap() []error {
	return []error{cerrdefs.ErrInternal, e.error}
}

// System marks err as an internal failure (500).
func System(err error) error {
	if err == nil || cerrdefs.IsInternal(err) {
		return err
	}
	return errSystem{err}
}
