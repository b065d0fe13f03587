package service

import "errors"

// ErrValidation marks missing or malformed input. Handlers map it to a
// 400-class response with the wrapped message.
var ErrValidation = errors.New("validation failed")

// ErrForbidden marks an access attempt by a caller who is neither the
// resource owner nor an admin.
var ErrForbidden = errors.New("caller does not own this resource")
