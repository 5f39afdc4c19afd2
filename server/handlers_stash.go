package server

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

///////// Stashes /////////

// stashDeliverables persists a named draft of the working set. Drafts are
// held to submission-grade completeness; saving one never submits anything.
func stashDeliverables(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		var req struct {
			StashName    string                `json:"stashName"`
			Deliverables []*common.Deliverable `json:"deliverables"`
		}
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		var st common.Stash
		if err := s.db.Update(func(tx *bolt.Tx) (err error) {
			cmp := getCampaignTx(s, tx, campaignId)
			if cmp == nil {
				return errInactiveCampaign
			}
			if err = common.ValidateDeliverables(req.Deliverables, cmp); err != nil {
				return
			}

			if st.Id, err = misc.GetNextIndex(tx, s.Cfg.Bucket.Stash); err != nil {
				return
			}

			st.CampaignId = campaignId
			st.InfluencerId = infId
			st.Name = req.StashName
			if st.Name == "" {
				st.Name = fmt.Sprintf("Draft %s", common.GetDate())
			}
			st.Stashed = time.Now().Unix()
			st.Deliverables = req.Deliverables

			return misc.PutTxJson(tx, s.Cfg.Bucket.Stash, st.Id, &st)
		}); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, misc.StatusOK(st.Id))
	}
}

func getStashes(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(200, getStashesFor(s, c.Param("campaignId"), c.Param("influencerId")))
	}
}

// loadStash returns the draft for copying into the editing buffer. Loading
// does not consume the stash.
func loadStash(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var st *common.Stash
		s.db.View(func(tx *bolt.Tx) error {
			st = getStashTx(s, tx, c.Param("stashId"))
			return nil
		})
		if st == nil || st.CampaignId != c.Param("campaignId") || st.InfluencerId != c.Param("influencerId") {
			c.JSON(400, misc.StatusErr("Stash not found"))
			return
		}
		c.JSON(200, st)
	}
}

// deleteStash removes one draft. Deleting an id that is already gone is a
// no-op success so retries are harmless.
func deleteStash(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		stashId := c.Param("stashId")

		if err := s.db.Update(func(tx *bolt.Tx) error {
			st := getStashTx(s, tx, stashId)
			if st == nil {
				return nil
			}
			if st.CampaignId != c.Param("campaignId") || st.InfluencerId != c.Param("influencerId") {
				return common.ErrNotFound
			}
			return misc.DelBucketBytes(tx, s.Cfg.Bucket.Stash, stashId)
		}); err != nil {
			c.JSON(400, misc.StatusErr("Stash not found"))
			return
		}

		c.JSON(200, misc.StatusOK(stashId))
	}
}

func deleteAllStashes(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		if err := s.db.Update(func(tx *bolt.Tx) error {
			b := misc.GetBucket(tx, s.Cfg.Bucket.Stash)
			var doomed []string
			b.ForEach(func(k, v []byte) error {
				var st common.Stash
				if json.Unmarshal(v, &st) == nil && st.CampaignId == campaignId && st.InfluencerId == infId {
					doomed = append(doomed, string(k))
				}
				return nil
			})
			for _, id := range doomed {
				if err := b.Delete([]byte(id)); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, misc.StatusOK(common.AssignmentKey(campaignId, infId)))
	}
}
