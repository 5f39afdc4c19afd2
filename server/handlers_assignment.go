package server

import (
	"errors"
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

var (
	errInactiveCampaign   = errors.New("campaign is no longer active")
	errAlreadyAssigned    = errors.New("influencer already has a live assignment for this campaign")
	errAssignmentNotFound = errors.New("assignment not found")
)

///////// Assignments /////////

func getAssignments(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		infId := c.Param("influencerId")
		if infId == "" {
			c.JSON(400, misc.StatusErr("Influencer ID undefined"))
			return
		}

		now := time.Now()
		out := []*decoratedAssignment{}
		for _, a := range getAssignmentsFor(s, infId) {
			cmp := s.getCampaignCached(a.CampaignId)
			if cmp == nil {
				continue
			}
			out = append(out, decorate(a, cmp, now))
		}

		c.JSON(200, out)
	}
}

func getAssignment(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var a *common.Assignment
		s.db.View(func(tx *bolt.Tx) error {
			a = getAssignmentTx(s, tx, c.Param("campaignId"), c.Param("influencerId"))
			return nil
		})
		if a == nil {
			c.JSON(400, misc.StatusErr(errAssignmentNotFound.Error()))
			return
		}

		cmp := s.getCampaignCached(a.CampaignId)
		if cmp == nil {
			c.JSON(500, misc.StatusErr(errInactiveCampaign.Error()))
			return
		}

		c.JSON(200, decorate(a, cmp, time.Now()))
	}
}

// respondToAssignment records the influencer's accept/decline decision.
// Only valid from pending; a second response fails with the transition
// error and leaves the record untouched.
func respondToAssignment(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		var body struct {
			Decision string `json:"decision"`
			Message  string `json:"message"`
		}
		if err := misc.BindJSON(c, &body); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		var (
			a   *common.Assignment
			cmp *common.Campaign
		)
		if err := s.db.Update(func(tx *bolt.Tx) error {
			if a = getAssignmentTx(s, tx, campaignId, infId); a == nil {
				return errAssignmentNotFound
			}
			if cmp = getCampaignTx(s, tx, campaignId); cmp == nil {
				return errInactiveCampaign
			}
			if err := a.Respond(common.AcceptanceStatus(body.Decision), body.Message, time.Now()); err != nil {
				return err
			}
			return saveAssignment(s, tx, a)
		}); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		go respondEmail(s, cmp, a)

		c.JSON(200, misc.StatusOK(a.Key()))
	}
}

// markComplete flips an assignment to completed once the deliverable quota
// is met. The gate is re-checked inside the write transaction; the client's
// own pre-check is an optimization, not the authority. Calling it again on
// a completed assignment is a safe no-op.
func markComplete(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		var (
			a       *common.Assignment
			cmp     *common.Campaign
			already bool
		)
		err := s.db.Update(func(tx *bolt.Tx) (err error) {
			if a = getAssignmentTx(s, tx, campaignId, infId); a == nil {
				return errAssignmentNotFound
			}
			if cmp = getCampaignTx(s, tx, campaignId); cmp == nil {
				return errInactiveCampaign
			}
			if already, err = a.MarkComplete(cmp.PostCount, time.Now()); err != nil {
				return err
			}
			if already {
				return nil
			}
			return saveAssignment(s, tx, a)
		})
		if err != nil {
			var ins *common.InsufficientDeliverablesError
			if errors.As(err, &ins) {
				c.JSON(400, gin.H{
					"status":    "error",
					"msg":       ins.Error(),
					"submitted": ins.Submitted,
					"required":  ins.Required,
				})
				return
			}
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		if !already {
			go completionEmail(s, cmp, a)
		}

		c.JSON(200, misc.StatusOK(a.Key()))
	}
}

// getOverdueAssignments lists accepted, in-progress work past its deadline.
// Used by the admin dash and mirrored by the engine's reminder sweep.
func getOverdueAssignments(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		now := time.Now()
		out := []*decoratedAssignment{}
		for _, a := range getAssignmentsFor(s, "") {
			cmp := s.getCampaignCached(a.CampaignId)
			if cmp == nil || !a.IsOverdue(cmp, now) {
				continue
			}
			out = append(out, decorate(a, cmp, now))
		}
		c.JSON(200, out)
	}
}
