package domain

import (
	"time"

	"orderflow/bizerror"

	"github.com/fundwit/go-commons/types"
)

// ElapsedSeconds computes end - begin in whole seconds.
// A negative span fails with ErrInvalidTiming, callers that must not
// fail decide their own clamping.
func ElapsedSeconds(begin, end types.Timestamp) (int64, error) {
	d := end.Time().Sub(begin.Time())
	if d < 0 {
		return 0, bizerror.ErrInvalidTiming
	}
	return int64(d / time.Second), nil
}
