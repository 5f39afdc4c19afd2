package server

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/boltdb/bolt"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

func getAssignmentTx(s *Server, tx *bolt.Tx, campaignId, influencerId string) *common.Assignment {
	var a common.Assignment
	key := common.AssignmentKey(campaignId, influencerId)
	if misc.GetTxJson(tx, s.Cfg.Bucket.Assignment, key, &a) != nil || a.CampaignId == "" {
		return nil
	}
	return &a
}

func saveAssignment(s *Server, tx *bolt.Tx, a *common.Assignment) error {
	return misc.PutTxJson(tx, s.Cfg.Bucket.Assignment, a.Key(), a)
}

func getCampaignTx(s *Server, tx *bolt.Tx, campaignId string) *common.Campaign {
	var cmp common.Campaign
	if misc.GetTxJson(tx, s.Cfg.Bucket.Campaign, campaignId, &cmp) != nil || cmp.Id == "" {
		return nil
	}
	return &cmp
}

func saveCampaign(tx *bolt.Tx, cmp *common.Campaign, s *Server) error {
	var (
		b   []byte
		err error
	)

	if b, err = json.Marshal(cmp); err != nil {
		return err
	}

	// Update the campaign store as well so things don't mess up
	// until the next cache update!
	s.Campaigns.SetCampaign(cmp.Id, cmp)

	return misc.PutBucketBytes(tx, s.Cfg.Bucket.Campaign, cmp.Id, b)
}

// getCampaignCached prefers the live cache and falls back to the bucket for
// campaigns written since the last engine refresh.
func (s *Server) getCampaignCached(campaignId string) *common.Campaign {
	if cmp, ok := s.Campaigns.Get(campaignId); ok {
		return cmp
	}
	return common.GetCampaign(campaignId, s.db, s.Cfg)
}

func getStashTx(s *Server, tx *bolt.Tx, stashId string) *common.Stash {
	var st common.Stash
	if misc.GetTxJson(tx, s.Cfg.Bucket.Stash, stashId, &st) != nil || st.Id == "" {
		return nil
	}
	return &st
}

// getStashes returns the influencer's stashes for a campaign in insertion
// (ascending id) order.
func getStashesFor(s *Server, campaignId, influencerId string) []*common.Stash {
	var out []*common.Stash
	s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(s.Cfg.Bucket.Stash)).ForEach(func(k, v []byte) error {
			var st common.Stash
			if json.Unmarshal(v, &st) != nil {
				return nil
			}
			if st.CampaignId == campaignId && st.InfluencerId == influencerId {
				out = append(out, &st)
			}
			return nil
		})
	})

	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].Id)
		b, _ := strconv.Atoi(out[j].Id)
		return a < b
	})
	return out
}

// decoratedAssignment is the wire shape for assignment reads: the stored
// record plus the due-date values derived from the campaign's cadence.
type decoratedAssignment struct {
	*common.Assignment
	DueDate       string `json:"dueDate"`
	DaysRemaining int    `json:"daysRemaining"`
	Overdue       bool   `json:"overdue"`
}

func decorate(a *common.Assignment, cmp *common.Campaign, now time.Time) *decoratedAssignment {
	return &decoratedAssignment{
		Assignment:    a,
		DueDate:       common.GetDateFromTime(a.DueDate(cmp)),
		DaysRemaining: a.DaysRemaining(cmp, now),
		Overdue:       a.IsOverdue(cmp, now),
	}
}

// getAssignmentsFor scans the assignment bucket for one influencer, or for
// everyone when influencerId is empty. Insertion order of deliverables is
// preserved inside each record; the list itself is sorted by assignment
// time, most recent first.
func getAssignmentsFor(s *Server, influencerId string) []*common.Assignment {
	var out []*common.Assignment
	s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(s.Cfg.Bucket.Assignment)).ForEach(func(k, v []byte) error {
			var a common.Assignment
			if json.Unmarshal(v, &a) != nil {
				return nil
			}
			if influencerId == "" || a.InfluencerId == influencerId {
				out = append(out, &a)
			}
			return nil
		})
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].Assigned > out[j].Assigned
	})
	return out
}
