package service

import "errors"

// Sentinel error kinds. Services wrap these with fmt.Errorf("%w: <detail>")
// and the HTTP layer maps the kind to a status code and the detail to the
// response body.
var (
	ErrValidation   = errors.New("validation")   // 400
	ErrForbidden    = errors.New("forbidden")    // 403
	ErrNotFound     = errors.New("not found")    // 404
	ErrConflict     = errors.New("conflict")     // 400 (duplicate cart line, duplicate membership)
	ErrUnauthorized = errors.New("unauthorized") // 401
)
