package server

import (
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
	"github.com/caringsparks/spark/platforms"
)

///////// Campaigns /////////

// putCampaign seeds the campaign requirements this core validates against.
// Pricing and owner approval happen in the campaign service; only the
// lifecycle-relevant fields land here.
func putCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			cmp common.Campaign
			err error
		)
		if err = misc.BindJSON(c, &cmp); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		if cmp.PostCount <= 0 {
			c.JSON(400, misc.StatusErr("Please provide a valid post count"))
			return
		}
		if len(cmp.Platforms) == 0 {
			c.JSON(400, misc.StatusErr("Please provide at least one platform"))
			return
		}
		for _, p := range cmp.Platforms {
			if !platform.IsKnown(p) {
				c.JSON(400, misc.StatusErr("This platform was not found: "+p))
				return
			}
		}

		cmp.Status = true
		if err = s.db.Update(func(tx *bolt.Tx) (err error) {
			if cmp.Id, err = misc.GetNextIndex(tx, s.Cfg.Bucket.Campaign); err != nil {
				return
			}
			return saveCampaign(tx, &cmp, s)
		}); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, misc.StatusOK(cmp.Id))
	}
}

func getCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmp := s.getCampaignCached(c.Param("id"))
		if cmp == nil {
			c.JSON(400, misc.StatusErr("Campaign not found"))
			return
		}
		c.JSON(200, cmp)
	}
}

// assignCampaign is the external re-assignment edge: it creates a fresh
// pending assignment for the (campaign, influencer) pair. Re-assigning over
// a declined assignment resets it; an assignment that is still live cannot
// be clobbered from here.
func assignCampaign(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		if infId == "" {
			c.JSON(400, misc.StatusErr("Influencer ID undefined"))
			return
		}

		var body struct {
			InfluencerEmail string `json:"influencerEmail"`
		}
		// body is optional
		misc.BindJSON(c, &body)

		if err := s.db.Update(func(tx *bolt.Tx) error {
			cmp := getCampaignTx(s, tx, campaignId)
			if cmp == nil || !cmp.IsValid() {
				return errInactiveCampaign
			}

			if old := getAssignmentTx(s, tx, campaignId, infId); old != nil && old.Status != common.StatusDeclined {
				return errAlreadyAssigned
			}

			a := &common.Assignment{
				CampaignId:      campaignId,
				InfluencerId:    infId,
				InfluencerEmail: misc.TrimEmail(body.InfluencerEmail),
				Status:          common.StatusPending,
				Progress:        common.ProgressNotStarted,
				Assigned:        time.Now().Unix(),
			}
			return saveAssignment(s, tx, a)
		}); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, misc.StatusOK(common.AssignmentKey(campaignId, infId)))
	}
}
