package revision

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule is the ordered list of checkpoint offsets, in days from the
// item's creation.
type Schedule []int

// DefaultSchedule is the day-1/3/7/30 revision protocol.
var DefaultSchedule = Schedule{1, 3, 7, 30}

// DefaultGracePeriod is how long a due checkpoint may wait before it
// counts as overdue.
const DefaultGracePeriod = 24 * time.Hour

// Offset returns the duration from creation to checkpoint i.
func (s Schedule) Offset(i int) time.Duration {
	return time.Duration(s[i]) * 24 * time.Hour
}

// Validate checks the schedule is non-empty and strictly increasing.
func (s Schedule) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("schedule must have at least one checkpoint")
	}
	prev := 0
	for i, d := range s {
		if d <= prev {
			return fmt.Errorf("schedule offset %d (%d days) must be greater than %d", i, d, prev)
		}
		prev = d
	}
	return nil
}

// String renders the schedule as comma-separated day offsets, the form it
// is stored in.
func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ",")
}

// ParseSchedule parses the comma-separated form produced by String.
func ParseSchedule(v string) (Schedule, error) {
	fields := strings.Split(v, ",")
	s := make(Schedule, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("parse schedule %q: %w", v, err)
		}
		s = append(s, d)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}
