package common

import (
	"regexp"
	"strings"
	"time"
)

// Metrics are optional self-reported counters for a published post.
type Metrics struct {
	Views    int64 `json:"views,omitempty"`
	Likes    int64 `json:"likes,omitempty"`
	Comments int64 `json:"comments,omitempty"`
	Shares   int64 `json:"shares,omitempty"`
}

func (m *Metrics) valid() bool {
	return m.Views >= 0 && m.Likes >= 0 && m.Comments >= 0 && m.Shares >= 0
}

// Deliverable is one piece of submitted promotional content. Id and
// Submitted are assigned by the store on first submission; drafts going
// through the stash carry neither.
type Deliverable struct {
	Id          string   `json:"id,omitempty"`
	Platform    string   `json:"platform"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Metrics     *Metrics `json:"metrics,omitempty"`

	Submitted int64 `json:"submitted,omitempty"` // Immutable once set

	// Append-only review thread, creation ordered
	Reviews []*Review `json:"reviews,omitempty"`
}

var urlRx = regexp.MustCompile(`^https?://`)

// ValidateDeliverables enforces submission-grade completeness: a known,
// campaign-allowed platform, an absolute http(s) URL, a description, and
// non-negative metrics when present. The check runs before any write so a
// bad entry never results in a partial submission. The stash intentionally
// holds drafts to the same bar.
func ValidateDeliverables(dels []*Deliverable, cmp *Campaign) error {
	if len(dels) == 0 {
		return ErrNoDeliverables
	}

	for i, d := range dels {
		if strings.TrimSpace(d.Platform) == "" {
			return &ValidationError{Index: i, Field: "platform", Msg: "is required"}
		}
		if !cmp.HasPlatform(d.Platform) {
			return &ValidationError{Index: i, Field: "platform", Msg: "is not allowed for this campaign"}
		}
		if !urlRx.MatchString(d.URL) {
			return &ValidationError{Index: i, Field: "url", Msg: "must start with http:// or https://"}
		}
		if strings.TrimSpace(d.Description) == "" {
			return &ValidationError{Index: i, Field: "description", Msg: "is required"}
		}
		if d.Metrics != nil && !d.Metrics.valid() {
			return &ValidationError{Index: i, Field: "metrics", Msg: "cannot be negative"}
		}
	}
	return nil
}

// StampSubmission assigns ids and the submission instant to a fresh set.
func StampSubmission(dels []*Deliverable, now time.Time, nextId func() string) {
	ts := now.Unix()
	for _, d := range dels {
		d.Id = nextId()
		d.Submitted = ts
		d.Reviews = nil
	}
}

// ReconcileEdit replaces the submitted set wholesale while carrying review
// threads across positionally: the item at index i of the edited set
// inherits the id, submission timestamp and reviews of the old index i as
// long as the platform still matches. Anything else (platform switched, or
// a new trailing item) is treated as a new post with a fresh id, the edit
// instant and an empty thread. Threads past the new length are dropped with
// the posts they annotated.
func ReconcileEdit(old, edited []*Deliverable, now time.Time, nextId func() string) {
	ts := now.Unix()
	for i, d := range edited {
		if i < len(old) && old[i].Platform == d.Platform {
			d.Id = old[i].Id
			d.Submitted = old[i].Submitted
			d.Reviews = old[i].Reviews
			continue
		}
		d.Id = nextId()
		d.Submitted = ts
		d.Reviews = nil
	}
}
