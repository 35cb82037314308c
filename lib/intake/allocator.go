package intake

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"qualityhome/lib/constants"
	"qualityhome/lib/util"
)

const fallbackSuffixDigits = 4

// LaudoCounter counts stored records whose laudo_id starts with a prefix
type LaudoCounter interface {
	CountByLaudoPrefix(ctx context.Context, prefix string) (int, error)
}

// Allocator derives QH-YYYYMMDD-NNNN reference codes from the per-day record count.
// The count is advisory: two concurrent submissions on the same day may get the same code.
type Allocator struct {
	Counter LaudoCounter
	Logger  *logrus.Logger
	// RandomDigits replaces util.RandomNumericString in tests
	RandomDigits func(n int) string
}

func NewAllocator(counter LaudoCounter, logger *logrus.Logger) *Allocator {
	return &Allocator{
		Counter:      counter,
		Logger:       logger,
		RandomDigits: util.RandomNumericString,
	}
}

// LaudoPrefix returns the "QH-YYYYMMDD-" prefix shared by every code of a day
func LaudoPrefix(datePrefix string) string {
	return constants.LAUDO_ID_PREFIX + datePrefix + "-"
}

// Allocate returns the next code for datePrefix. When the count cannot be read it
// returns a code with a random 4-digit suffix together with an *AllocationError.
func (a *Allocator) Allocate(ctx context.Context, datePrefix string) (string, error) {
	prefix := LaudoPrefix(datePrefix)

	count, err := a.Counter.CountByLaudoPrefix(ctx, prefix)
	if err != nil {
		code := prefix + a.randomDigits(fallbackSuffixDigits)
		a.Logger.WithFields(logrus.Fields{
			"operation": "Allocate",
			"prefix":    prefix,
			"laudo_id":  code,
			"error":     err.Error(),
		}).Warn("Could not count laudos of the day, using random suffix")
		return code, &AllocationError{Prefix: prefix, Err: err}
	}

	code := fmt.Sprintf("%s%04d", prefix, count+1)
	a.Logger.WithFields(logrus.Fields{
		"operation": "Allocate",
		"laudo_id":  code,
		"count":     count,
	}).Debug("Allocated laudo id")
	return code, nil
}

func (a *Allocator) randomDigits(n int) string {
	if a.RandomDigits == nil {
		return util.RandomNumericString(n)
	}
	return a.RandomDigits(n)
}
