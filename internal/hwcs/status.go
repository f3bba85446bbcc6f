package hwcs

import (
	"fmt"
	"math"
)

// Status is the single result value every dispatched operation returns.
// Zero is success; negative values are failures. Values outside the named
// set come from the backend and are passed through untouched.
type Status int32

const (
	StatusOK               Status = 0
	StatusPermissionDenied Status = -1
	StatusNameNotFound     Status = -2
	StatusNoMemory         Status = -12
	StatusAlreadyExists    Status = -17
	StatusNoInit           Status = -19
	StatusBadValue         Status = -22
	StatusDeadObject       Status = -32
	StatusInvalidOperation Status = -38
	StatusTimedOut         Status = -110
	StatusUnknownError     Status = math.MinInt32
)

func (s Status) OK() bool {
	return s == StatusOK
}

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusPermissionDenied:
		return "PERMISSION_DENIED"
	case StatusNameNotFound:
		return "NAME_NOT_FOUND"
	case StatusNoMemory:
		return "NO_MEMORY"
	case StatusAlreadyExists:
		return "ALREADY_EXISTS"
	case StatusNoInit:
		return "NO_INIT"
	case StatusBadValue:
		return "BAD_VALUE"
	case StatusDeadObject:
		return "DEAD_OBJECT"
	case StatusInvalidOperation:
		return "INVALID_OPERATION"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusUnknownError:
		return "UNKNOWN_ERROR"
	default:
		return fmt.Sprintf("STATUS(%d)", int32(s))
	}
}

// StatusFromBool folds a boolean backend answer into the status domain.
func StatusFromBool(ok bool) Status {
	if ok {
		return StatusOK
	}
	return StatusUnknownError
}
