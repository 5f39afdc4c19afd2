package common

// Stash is a named, server-persisted draft of a deliverable set. Stashes are
// a convenience store next to the authoritative submission: saving one never
// submits anything, loading one only pre-fills the editing buffer, and
// submitting never deletes one.
type Stash struct {
	Id           string `json:"id"`
	CampaignId   string `json:"campaignId"`
	InfluencerId string `json:"influencerId"`

	Name    string `json:"name"` // user supplied; defaulted by the server when blank
	Stashed int64  `json:"stashed"`

	Deliverables []*Deliverable `json:"deliverables"`
}
