package plist

import "github.com/wippyai/proplist/errors"

// Errors returned by list operations. Match them with errors.Is; each maps
// to a negative code through errors.Code.
var (
	ErrUndefined     = errors.Sentinel(errors.KindUndefined)
	ErrInvalidIndex  = errors.Sentinel(errors.KindInvalidIndex)
	ErrAlreadyExists = errors.Sentinel(errors.KindAlreadyExists)
	ErrNoMemory      = errors.Sentinel(errors.KindNoMemory)
	ErrListFull      = errors.Sentinel(errors.KindListFull)
)
