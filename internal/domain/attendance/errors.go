package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAlreadyMarked      = errors.New("attendance already marked for this date")
	ErrCheckInRequired    = errors.New("check-in time is required")
	ErrCheckOutBeforeIn   = errors.New("check-out time must be after check-in time")
	ErrFutureDate         = errors.New("attendance cannot be marked for a future date")
	ErrUserNotFound       = errors.New("one or more users do not exist")
)
