package server

import (
	"log"
	"time"

	"github.com/boltdb/bolt"

	"github.com/caringsparks/spark/internal/common"
)

// newLifecycleEngine keeps the campaign cache warm and runs the overdue
// reminder sweep. Both mirror the authoritative buckets; handlers never
// trust the cache for writes.
func newLifecycleEngine(srv *Server) error {
	srv.Campaigns.Set(srv.db, srv.Cfg)
	log.Println("campaign cache primed,", srv.Campaigns.Len(), "campaigns")

	cacheUpdate := srv.Cfg.EngineUpdate
	if cacheUpdate == 0 {
		cacheUpdate = 5
	}
	cTicker := time.NewTicker(cacheUpdate * time.Minute)
	go func() {
		for range cTicker.C {
			srv.Campaigns.Set(srv.db, srv.Cfg)
		}
	}()

	sweep := srv.Cfg.OverdueSweep
	if sweep == 0 {
		sweep = 24
	}
	oTicker := time.NewTicker(sweep * time.Hour)
	go func() {
		for range oTicker.C {
			if err := remindOverdue(srv); err != nil {
				srv.Alert("Error running overdue sweep", err)
			}
		}
	}()

	return nil
}

// remindOverdue mails each influencer whose accepted, in-progress assignment
// has passed its due date, once per assignment.
func remindOverdue(srv *Server) error {
	var (
		now  = time.Now()
		cmps = srv.Campaigns.GetStore() // one snapshot for the whole sweep
	)

	var due []*common.Assignment
	for _, a := range getAssignmentsFor(srv, "") {
		cmp := cmps[a.CampaignId]
		if cmp == nil {
			cmp = srv.getCampaignCached(a.CampaignId)
			cmps[a.CampaignId] = cmp
		}
		if cmp == nil || a.Reminded || !a.IsOverdue(cmp, now) {
			continue
		}
		due = append(due, a)
	}

	for _, a := range due {
		cmp := cmps[a.CampaignId]

		overdueEmail(srv, cmp, a)

		if err := srv.db.Update(func(tx *bolt.Tx) error {
			// re-read; the influencer may have submitted in the meantime
			cur := getAssignmentTx(srv, tx, a.CampaignId, a.InfluencerId)
			if cur == nil || !cur.IsOverdue(cmp, time.Now()) {
				return nil
			}
			cur.Reminded = true
			return saveAssignment(srv, tx, cur)
		}); err != nil {
			return err
		}
	}

	return nil
}
