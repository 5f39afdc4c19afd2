package common

import (
	"time"
)

type AcceptanceStatus string

const (
	StatusPending  AcceptanceStatus = "pending"
	StatusAccepted AcceptanceStatus = "accepted"
	StatusDeclined AcceptanceStatus = "declined"
)

type Progress string

const (
	ProgressNotStarted Progress = "notStarted"
	ProgressInProgress Progress = "inProgress"
	ProgressCompleted  Progress = "completed"
)

// Assignment binds one influencer to one campaign. The pair of ids is the
// identity; everything else is lifecycle state.
//
// pending -> accepted -> inProgress -> completed
// pending -> declined (terminal, only an external re-assignment resets it)
type Assignment struct {
	CampaignId   string `json:"campaignId"`
	InfluencerId string `json:"influencerId"`

	// Supplied by the assigning service so reminders can reach the
	// influencer without this core owning an account registry.
	InfluencerEmail string `json:"influencerEmail,omitempty"`

	Status   AcceptanceStatus `json:"status"`
	Progress Progress         `json:"progress"`

	Assigned  int64 `json:"assigned"`            // Timestamp for when the campaign was assigned
	Responded int64 `json:"responded,omitempty"` // Set once, when Status leaves pending
	Completed int64 `json:"completed,omitempty"` // Set once, on transition to completed

	// Note the influencer sent along with their accept/decline response
	Message string `json:"message,omitempty"`

	// Overdue reminder already mailed (set by the engine sweep)
	Reminded bool `json:"reminded,omitempty"`

	// Authoritative deliverable set, insertion ordered. Append-only from the
	// influencer's point of view; replaced wholesale by the edit path.
	SubmittedJobs []*Deliverable `json:"submittedJobs,omitempty"`
}

func AssignmentKey(campaignId, influencerId string) string {
	return campaignId + ":" + influencerId
}

func (a *Assignment) Key() string {
	return AssignmentKey(a.CampaignId, a.InfluencerId)
}

// Respond records the influencer's accept/decline decision. Allowed exactly
// once, from pending.
func (a *Assignment) Respond(decision AcceptanceStatus, msg string, now time.Time) error {
	if decision != StatusAccepted && decision != StatusDeclined {
		return ErrBadDecision
	}
	if a.Status != StatusPending {
		return &InvalidTransitionError{From: a.Status, To: decision}
	}

	a.Status = decision
	a.Responded = now.Unix()
	a.Message = msg
	if decision == StatusAccepted {
		a.Progress = ProgressInProgress
	}
	return nil
}

// CanSubmit gates both the submit and the edit path.
func (a *Assignment) CanSubmit() error {
	if a.Status != StatusAccepted {
		return ErrNotAccepted
	}
	if a.Progress == ProgressCompleted {
		return ErrCompleted
	}
	return nil
}

// CanComplete is the pure completion-gate predicate. The server re-checks it
// inside the write transaction; callers use it to gate UI affordances.
func (a *Assignment) CanComplete(required int) bool {
	return a.Status == StatusAccepted &&
		len(a.SubmittedJobs) >= required &&
		a.Progress != ProgressCompleted
}

// MarkComplete flips the assignment to completed once enough deliverables
// exist. A repeat call on a completed assignment is a no-op success so the
// operation is safe to retry; already reports that case.
func (a *Assignment) MarkComplete(required int, now time.Time) (already bool, err error) {
	if a.Progress == ProgressCompleted {
		return true, nil
	}
	if a.Status != StatusAccepted {
		return false, ErrNotAccepted
	}
	if len(a.SubmittedJobs) < required {
		return false, &InsufficientDeliverablesError{
			Submitted: len(a.SubmittedJobs),
			Required:  required,
		}
	}

	a.Progress = ProgressCompleted
	a.Completed = now.Unix()
	return false, nil
}

// FindJob returns the submitted deliverable with the given id.
func (a *Assignment) FindJob(deliverableId string) *Deliverable {
	for _, job := range a.SubmittedJobs {
		if job.Id == deliverableId {
			return job
		}
	}
	return nil
}
