package vacation

import (
	"time"

	"github.com/frahmantamala/leave-management/internal"
)

const dateLayout = "2006-01-02"

// CreateRequestDTO is the request payload for submitting a vacation request.
// Dates are date-only strings; time-of-day never matters in this domain.
type CreateRequestDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

// ParseDates validates the payload shape and returns the parsed range.
// Business rules (ordering, past dates, balance) belong to the Validator.
func (dto CreateRequestDTO) ParseDates() (start, end time.Time, err error) {
	if dto.StartDate == "" || dto.EndDate == "" || dto.Reason == "" {
		return time.Time{}, time.Time{}, internal.NewValidationError("start_date, end_date and reason are required", internal.ErrCodeValidationFailed)
	}

	start, parseErr := time.Parse(dateLayout, dto.StartDate)
	if parseErr != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("start_date must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
	}

	end, parseErr = time.Parse(dateLayout, dto.EndDate)
	if parseErr != nil {
		return time.Time{}, time.Time{}, internal.NewValidationError("end_date must be a YYYY-MM-DD date", internal.ErrCodeInvalidDate)
	}

	return start, end, nil
}

// DecideRequestDTO is the payload for a supervisor decision.
type DecideRequestDTO struct {
	Comment string `json:"comment"`
}

func (dto DecideRequestDTO) Validate() error {
	if dto.Comment == "" {
		return internal.NewValidationError("comment is required", internal.ErrCodeValidationFailed)
	}
	return nil
}
