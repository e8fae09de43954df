package records

import "errors"

// ErrUnsupportedType is returned for a record type that has no list.
var ErrUnsupportedType = errors.New("unsupported record type")
