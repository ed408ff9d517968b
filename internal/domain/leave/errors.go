package leave

import "errors"

var (
	ErrLeaveNotFound                = errors.New("leave record not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request has already been processed")
)
