package leave

import "github.com/cmlabs-hris/hris-attendance-go/internal/pkg/validator"

type ApproveLeaveRequest struct {
	ID         string `json:"-"`
	ApproverID string `json:"-"`
}

func (r *ApproveLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "leave id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
