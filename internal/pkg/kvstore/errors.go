package kvstore

import "errors"

// ErrNotInteger is returned by Incr when the stored value is not a base-10 integer.
var ErrNotInteger = errors.New("kvstore: value is not an integer")
