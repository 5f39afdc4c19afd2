package common

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A campaign's postFrequency is free text along the lines of
// "3 times per week for 2 weeks = 6 posts in total"; the trailing duration
// clause is what drives the deadline.
var durationRx = regexp.MustCompile(`for (\d+) (day|week|month)s?`)

// DefaultDueDays is the fallback window when the frequency string carries no
// parsable duration. That is a policy choice, not a parse failure.
const DefaultDueDays = 7

// DueDateFrom computes the deliverable deadline from the assignment instant
// and the campaign's posting cadence.
func DueDateFrom(assigned time.Time, postFrequency string) time.Time {
	m := durationRx.FindStringSubmatch(strings.ToLower(postFrequency))
	if m == nil {
		return assigned.AddDate(0, 0, DefaultDueDays)
	}

	n, _ := strconv.Atoi(m[1])
	switch m[2] {
	case "day":
		return assigned.AddDate(0, 0, n)
	case "week":
		return assigned.AddDate(0, 0, n*7)
	default: // month, calendar arithmetic
		return assigned.AddDate(0, n, 0)
	}
}

// DueDate is the deadline for this assignment under the given campaign.
func (a *Assignment) DueDate(cmp *Campaign) time.Time {
	return DueDateFrom(time.Unix(a.Assigned, 0).UTC(), cmp.PostFrequency)
}

// IsOverdue reports whether accepted, still in-progress work has passed its
// deadline. Pending, declined and completed assignments are never overdue.
func (a *Assignment) IsOverdue(cmp *Campaign, now time.Time) bool {
	if a.Status != StatusAccepted || a.Progress == ProgressCompleted {
		return false
	}
	return now.After(a.DueDate(cmp))
}

// DaysRemaining is ceil(dueDate - now) in days: 0 once completed, negative
// when overdue (callers render that as "N days overdue").
func (a *Assignment) DaysRemaining(cmp *Campaign, now time.Time) int {
	if a.Progress == ProgressCompleted {
		return 0
	}
	return int(math.Ceil(a.DueDate(cmp).Sub(now).Hours() / 24))
}
