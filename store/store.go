package store

import "errors"

var ErrNotFound = errors.New("record not found")

func IsErrNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
