package booking

import (
	"errors"
	"fmt"
	"time"

	"roombook/models"
	"roombook/timeslot"
)

var (
	ErrNotAligned       = errors.New("times must fall on half-hour boundaries")
	ErrEndNotAfterStart = errors.New("end time must be after start time")
	ErrTooLong          = errors.New("booking exceeds the single-booking limit")
	ErrQuotaExceeded    = errors.New("booking exceeds the daily quota")
)

// ConflictError reports an overlap with an existing booking and carries
// the conflicting owner so the message can name them.
type ConflictError struct {
	Owner string
	Start string
	End   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("slot conflicts with %s's booking %s-%s", e.Owner, e.Start, e.End)
}

// Rules is the policy a candidate booking is checked against.
type Rules struct {
	MaxSingle  time.Duration
	MaxDaily   time.Duration
	HalfHour   bool
	DailyQuota bool
}

// DefaultRules: half-hour slots, at most 3 hours per booking and at
// most 3 hours total per user per day.
var DefaultRules = Rules{
	MaxSingle:  3 * time.Hour,
	MaxDaily:   3 * time.Hour,
	HalfHour:   true,
	DailyQuota: true,
}

// Check decides whether candidate may be stored given the other
// bookings on the same date. excludeID names a record being edited so
// it does not conflict with itself; pass 0 on create. The first failing
// rule wins: alignment, interval order, single-booking cap, daily
// quota, then overlap. Check has no side effects.
func (rules Rules) Check(candidate models.Booking, sameDate []models.Booking, excludeID int64) error {
	start, err := timeslot.ParseClock(candidate.StartTime)
	if err != nil {
		return err
	}
	end, err := timeslot.ParseClock(candidate.EndTime)
	if err != nil {
		return err
	}

	if rules.HalfHour && (!timeslot.Aligned(start) || !timeslot.Aligned(end)) {
		return ErrNotAligned
	}
	if start >= end {
		return ErrEndNotAfterStart
	}

	length := time.Duration(end-start) * time.Minute
	if length > rules.MaxSingle {
		return ErrTooLong
	}

	if rules.DailyQuota {
		total := length
		for _, b := range sameDate {
			if b.ID == excludeID || b.User != candidate.User {
				continue
			}
			d, err := timeslot.Duration(b.StartTime, b.EndTime)
			if err != nil {
				return err
			}
			total += d
		}
		if total > rules.MaxDaily {
			return ErrQuotaExceeded
		}
	}

	for _, b := range sameDate {
		if b.ID == excludeID {
			continue
		}
		bs, err := timeslot.ParseClock(b.StartTime)
		if err != nil {
			return err
		}
		be, err := timeslot.ParseClock(b.EndTime)
		if err != nil {
			return err
		}
		if timeslot.Overlaps(start, end, bs, be) {
			return &ConflictError{Owner: b.User, Start: b.StartTime, End: b.EndTime}
		}
	}

	return nil
}
