package bizerror

import "errors"

var (
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrInvalidPassword = errors.New("invalid password")

	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidQuantity = errors.New("invalid quantity")
	ErrInvalidTiming   = errors.New("invalid timing")

	ErrOrderCompleted = errors.New("order is completed")
	ErrStageConflict  = errors.New("order already has an open stage")
	ErrNoOpenStage    = errors.New("order has no open stage")
)
