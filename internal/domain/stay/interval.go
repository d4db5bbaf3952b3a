package stay

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidInterval  = errors.New("invalid stay interval")
	ErrInvalidTimeOfDay = errors.New("invalid time of day")
)

const DateLayout = "2006-01-02"

// TimeOfDay is a wall-clock time expressed in minutes after midnight.
type TimeOfDay struct {
	minutes int
}

func NewTimeOfDay(hour, minute int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, ErrInvalidTimeOfDay
	}
	return TimeOfDay{minutes: hour*60 + minute}, nil
}

// ParseTimeOfDay accepts "HH:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, s)
	}
	return NewTimeOfDay(t.Hour(), t.Minute())
}

func MustTimeOfDay(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t TimeOfDay) Hour() int   { return t.minutes / 60 }
func (t TimeOfDay) Minute() int { return t.minutes % 60 }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

// Interval is a half-open stay [check-in, check-out) on the hotel's wall clock.
type Interval struct {
	checkInDate  time.Time
	checkInTime  TimeOfDay
	checkOutDate time.Time
	checkOutTime TimeOfDay
}

func NewInterval(checkInDate time.Time, checkInTime TimeOfDay, checkOutDate time.Time, checkOutTime TimeOfDay) (Interval, error) {
	i := Interval{
		checkInDate:  truncateDate(checkInDate),
		checkInTime:  checkInTime,
		checkOutDate: truncateDate(checkOutDate),
		checkOutTime: checkOutTime,
	}
	if err := i.Validate(); err != nil {
		return Interval{}, err
	}
	return i, nil
}

// ParseInterval builds an interval from "2006-01-02" dates and "15:04" times.
func ParseInterval(checkInDate, checkInTime, checkOutDate, checkOutTime string) (Interval, error) {
	inDate, err := time.Parse(DateLayout, checkInDate)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-in date %q", ErrInvalidInterval, checkInDate)
	}
	outDate, err := time.Parse(DateLayout, checkOutDate)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-out date %q", ErrInvalidInterval, checkOutDate)
	}
	inTime, err := ParseTimeOfDay(checkInTime)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-in time: %w", ErrInvalidInterval, err)
	}
	outTime, err := ParseTimeOfDay(checkOutTime)
	if err != nil {
		return Interval{}, fmt.Errorf("%w: check-out time: %w", ErrInvalidInterval, err)
	}
	return NewInterval(inDate, inTime, outDate, outTime)
}

// FromTimestamps rebuilds an interval from stored start/end instants.
func FromTimestamps(start, end time.Time) (Interval, error) {
	start, end = start.UTC(), end.UTC()
	return NewInterval(
		start, TimeOfDay{minutes: start.Hour()*60 + start.Minute()},
		end, TimeOfDay{minutes: end.Hour()*60 + end.Minute()},
	)
}

func (i Interval) Validate() error {
	if i.checkInDate.IsZero() || i.checkOutDate.IsZero() {
		return fmt.Errorf("%w: dates are required", ErrInvalidInterval)
	}
	if !i.Start().Before(i.End()) {
		return fmt.Errorf("%w: check-out %s must be after check-in %s",
			ErrInvalidInterval, i.End().Format(time.DateTime), i.Start().Format(time.DateTime))
	}
	return nil
}

func (i Interval) Start() time.Time { return combine(i.checkInDate, i.checkInTime) }
func (i Interval) End() time.Time   { return combine(i.checkOutDate, i.checkOutTime) }

func (i Interval) CheckInDate() time.Time  { return i.checkInDate }
func (i Interval) CheckInTime() TimeOfDay  { return i.checkInTime }
func (i Interval) CheckOutDate() time.Time { return i.checkOutDate }
func (i Interval) CheckOutTime() TimeOfDay { return i.checkOutTime }

// Nights counts calendar nights between the check-in and check-out dates.
func (i Interval) Nights() int {
	return int(i.checkOutDate.Sub(i.checkInDate).Hours() / 24)
}

// Window is the coarse [from, to) range a store may use to pre-filter candidates
// before Overlaps is applied. It widens the interval by the turnover buffer on both sides.
func (i Interval) Window(buffer time.Duration) (from, to time.Time) {
	if buffer < 0 {
		buffer = 0
	}
	return i.Start().Add(-buffer), i.End().Add(buffer)
}

func (i Interval) String() string {
	return fmt.Sprintf("[%s, %s)", i.Start().Format("2006-01-02 15:04"), i.End().Format("2006-01-02 15:04"))
}

// Overlaps reports whether a and b share an instant of occupancy once each checkout is
// extended by buffer. With a zero buffer a checkout and a check-in at the same instant
// do not conflict.
func Overlaps(a, b Interval, buffer time.Duration) (bool, error) {
	if err := a.Validate(); err != nil {
		return false, err
	}
	if err := b.Validate(); err != nil {
		return false, err
	}
	if buffer < 0 {
		buffer = 0
	}
	return a.Start().Before(b.End().Add(buffer)) && b.Start().Before(a.End().Add(buffer)), nil
}

func truncateDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func combine(date time.Time, tod TimeOfDay) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, tod.Hour(), tod.Minute(), 0, 0, time.UTC)
}
