package chrono

import (
	"time"
	_ "time/tzdata"
)

// DefaultLocation is the time zone the academic calendar is computed in.
const DefaultLocation = "Europe/Rome"

// TimeAPI is the clock of the pipeline, the academic year depends on it.
type TimeAPI interface {
	Now() time.Time
}

type StandardImpl struct {
	location *time.Location
}

func NewStandardImpl() (StandardImpl, error) {
	return NewStandardImplIn(DefaultLocation)
}

func NewStandardImplIn(name string) (StandardImpl, error) {
	location, err := time.LoadLocation(name)
	if err != nil {
		return StandardImpl{}, err
	}
	return StandardImpl{location: location}, nil
}

func (s StandardImpl) Now() time.Time {
	return time.Now().In(s.location)
}

// FixedImpl always reports the same instant, tests use it to pin the current year.
type FixedImpl struct {
	At time.Time
}

func (f FixedImpl) Now() time.Time {
	return f.At
}
