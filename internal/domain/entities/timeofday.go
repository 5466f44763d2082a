package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// SecondsPerDay bounds ClockTime.
const SecondsPerDay = 24 * 60 * 60

// ClockTime is a local wall-clock time stored as seconds since midnight.
// It travels as "HH:MM:SS" and is persisted as an integer.
type ClockTime int64

// ClockTimeOf returns the wall-clock time of t in its own location.
func ClockTimeOf(t time.Time) ClockTime {
	h, m, s := t.Clock()
	return ClockTime(h*3600 + m*60 + s)
}

// NewClockTime builds a ClockTime from its parts.
func NewClockTime(hour, minute, second int) ClockTime {
	return ClockTime(hour*3600 + minute*60 + second)
}

// ParseClockTime accepts "HH:MM" or "HH:MM:SS". "24:00" is accepted as the
// end of the day.
func ParseClockTime(s string) (ClockTime, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, WrapError(CodeValidation, "invalid time of day", fmt.Errorf("%q", s))
	}
	limits := []int{24, 59, 59}
	var total int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > limits[i] {
			return 0, WrapError(CodeValidation, "invalid time of day", fmt.Errorf("%q", s))
		}
		total = total*60 + n
	}
	if len(parts) == 2 {
		total *= 60
	}
	if total > SecondsPerDay {
		return 0, WrapError(CodeValidation, "invalid time of day", fmt.Errorf("%q", s))
	}
	return ClockTime(total), nil
}

// Valid reports whether the value is within a single day.
func (c ClockTime) Valid() bool {
	return c >= 0 && c < SecondsPerDay
}

// ValidEnd reports whether the value can close a range on a single day,
// which includes midnight at the end of it.
func (c ClockTime) ValidEnd() bool {
	return c > 0 && c <= SecondsPerDay
}

// On places the wall-clock time on the date of day, in day's location.
func (c ClockTime) On(day time.Time) time.Time {
	return StartOfDay(day).Add(time.Duration(c) * time.Second)
}

func (c ClockTime) String() string {
	s := int64(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return WrapError(CodeValidation, "time of day must be a string", err)
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer.
func (c ClockTime) Value() (driver.Value, error) {
	return int64(c), nil
}

// Scan implements sql.Scanner.
func (c *ClockTime) Scan(src interface{}) error {
	n, err := scanInt64(src)
	if err != nil {
		return fmt.Errorf("scan clock time: %w", err)
	}
	*c = ClockTime(n)
	return nil
}

// Duration is a whole number of seconds. It is persisted as an integer and
// travels as "HH:MM:SS"; input also accepts a plain number of seconds.
type Duration int64

// DurationOf truncates d to whole seconds.
func DurationOf(d time.Duration) Duration {
	return Duration(d / time.Second)
}

// ParseDuration accepts "HH:MM:SS", a plain number of seconds, or a Go
// duration string such as "25m".
func ParseDuration(s string) (Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidDuration
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n < 0 {
			return 0, ErrInvalidDuration
		}
		return Duration(n), nil
	}
	if parts := strings.Split(s, ":"); len(parts) == 3 {
		var total int64
		for i, p := range parts {
			n, err := strconv.ParseInt(p, 10, 64)
			if err != nil || n < 0 || (i > 0 && n > 59) {
				return 0, ErrInvalidDuration
			}
			total = total*60 + n
		}
		return Duration(total), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, ErrInvalidDuration
	}
	return DurationOf(d), nil
}

// Std converts to a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d) * time.Second
}

// String renders HH:MM:SS; hours may exceed 24.
func (d Duration) String() string {
	s := int64(d)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		if n < 0 {
			return ErrInvalidDuration
		}
		*d = Duration(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDuration
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Duration) Value() (driver.Value, error) {
	return int64(d), nil
}

// Scan implements sql.Scanner.
func (d *Duration) Scan(src interface{}) error {
	n, err := scanInt64(src)
	if err != nil {
		return fmt.Errorf("scan duration: %w", err)
	}
	*d = Duration(n)
	return nil
}

func scanInt64(src interface{}) (int64, error) {
	switch v := src.(type) {
	case int64:
		return v, nil
	case int32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return strconv.ParseInt(string(v), 10, 64)
	case string:
		return strconv.ParseInt(v, 10, 64)
	case nil:
		return 0, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", src)
	}
}
