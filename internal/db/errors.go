package db

import (
	"errors"
	"fmt"
)

// ErrKeyNotFound is returned by Load for missing keys.
var ErrKeyNotFound = errors.New("db: key not found")

// Op names the command that failed.
type Op string

// Commands issued by the stores.
const (
	OpGet  Op = "GET"
	OpSet  Op = "SET"
	OpDel  Op = "DEL"
	OpPing Op = "PING"
)

// Error carries the failed command and, when known, its key.
type Error struct {
	Op  Op
	Key string
	Err error
}

func (e *Error) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("db %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("db %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
