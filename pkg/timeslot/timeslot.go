// Package timeslot converts between the 12-hour slot labels shown to players
// ("07:00 PM") and the 24-hour values used for computation.
//
// Slots are one hour long and never cross midnight: an 11:00 PM start yields
// the label "12:00 AM" for its end, but no date arithmetic is applied.
package timeslot

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CancellationWindow is the minimum distance between now and a booking's
// start for the booking to be cancellable.
const CancellationWindow = 7 * time.Hour

// StatusCancelled mirrors models.BookingCancelled.
const StatusCancelled = "cancelled"

// ErrMalformedTime is returned for labels that are not "h:mm[:ss] AM|PM".
var ErrMalformedTime = errors.New("malformed slot time")

var labelPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?\s?(AM|PM)$`)

// Clock is a parsed 12-hour label.
type Clock struct {
	Hour   int // 1-12
	Minute int
	Second int
	PM     bool
}

// Parse parses a 12-hour slot label.
func Parse(label string) (Clock, error) {
	m := labelPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, label)
	}

	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	second := 0
	if m[3] != "" {
		second, _ = strconv.Atoi(m[3])
	}

	if hour < 1 || hour > 12 || minute > 59 || second > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrMalformedTime, label)
	}

	return Clock{
		Hour:   hour,
		Minute: minute,
		Second: second,
		PM:     strings.EqualFold(m[4], "PM"),
	}, nil
}

// Hour24 returns the hour in [0,23].
func (c Clock) Hour24() int {
	switch {
	case c.PM && c.Hour != 12:
		return c.Hour + 12
	case !c.PM && c.Hour == 12:
		return 0
	default:
		return c.Hour
	}
}

// String renders the clock back as a label, dropping seconds.
func (c Clock) String() string {
	return Format(c.Hour24(), c.Minute)
}

// Format renders a 24-hour value as "HH:MM AM|PM". Hour 0 (and 24) display
// as 12 AM, hours 13-23 wrap to 1-11 PM.
func Format(hour24, minute int) string {
	hour24 %= 24
	suffix := "AM"
	if hour24 >= 12 {
		suffix = "PM"
	}
	hour12 := hour24 % 12
	if hour12 == 0 {
		hour12 = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour12, minute, suffix)
}

// EndTime returns the label one hour after start, keeping the minutes.
func EndTime(start string) (string, error) {
	c, err := Parse(start)
	if err != nil {
		return "", err
	}
	return Format(c.Hour24()+1, c.Minute), nil
}

// StartInstant composes a booking's calendar date with its start label in loc.
func StartInstant(date time.Time, start string, loc *time.Location) (time.Time, error) {
	c, err := Parse(start)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	y, mo, d := date.Date()
	return time.Date(y, mo, d, c.Hour24(), c.Minute, c.Second, 0, loc), nil
}

// HoursUntil returns the absolute distance in hours between now and the
// booking start.
func HoursUntil(date time.Time, start string, now time.Time, loc *time.Location) (float64, error) {
	at, err := StartInstant(date, start, loc)
	if err != nil {
		return 0, err
	}
	return math.Abs(at.Sub(now).Hours()), nil
}

// CanCancel reports whether a booking may still be cancelled. Malformed start
// labels are never cancellable.
func CanCancel(status string, date time.Time, start string, now time.Time, loc *time.Location) bool {
	if status == StatusCancelled {
		return false
	}
	hours, err := HoursUntil(date, start, now, loc)
	if err != nil {
		return false
	}
	return hours >= CancellationWindow.Hours()
}

// DaySlots lists hourly start labels from openHour to closeHour inclusive.
func DaySlots(openHour, closeHour int) []string {
	if openHour < 0 {
		openHour = 0
	}
	if closeHour > 23 {
		closeHour = 23
	}
	if closeHour < openHour {
		return nil
	}
	slots := make([]string, 0, closeHour-openHour+1)
	for h := openHour; h <= closeHour; h++ {
		slots = append(slots, Format(h, 0))
	}
	return slots
}
