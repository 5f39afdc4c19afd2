package server

import (
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

///////// Deliverables /////////

type deliverablesReq struct {
	Deliverables []*common.Deliverable `json:"deliverables"`
}

// submitDeliverables appends a validated set to the assignment's submitted
// jobs. Validation is all-or-nothing and runs before anything is written, so
// a bad entry never results in a partial submission.
func submitDeliverables(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		var req deliverablesReq
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		var a *common.Assignment
		if err := s.db.Update(func(tx *bolt.Tx) error {
			if a = getAssignmentTx(s, tx, campaignId, infId); a == nil {
				return errAssignmentNotFound
			}
			cmp := getCampaignTx(s, tx, campaignId)
			if cmp == nil {
				return errInactiveCampaign
			}

			if err := a.CanSubmit(); err != nil {
				return err
			}
			if err := common.ValidateDeliverables(req.Deliverables, cmp); err != nil {
				return err
			}

			common.StampSubmission(req.Deliverables, time.Now(), misc.PseudoUUID)
			a.SubmittedJobs = append(a.SubmittedJobs, req.Deliverables...)

			return saveAssignment(s, tx, a)
		}); err != nil {
			if err == common.ErrNotAccepted {
				c.JSON(403, misc.StatusErr(err.Error()))
				return
			}
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, a)
	}
}

// updateDeliverables replaces the submitted set wholesale. Review threads
// follow position: the item at index i keeps the old index i's id, stamp and
// thread when the platform matches, everything else starts fresh.
func updateDeliverables(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			infId      = c.Param("influencerId")
			campaignId = c.Param("campaignId")
		)

		var req deliverablesReq
		if err := misc.BindJSON(c, &req); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		var a *common.Assignment
		if err := s.db.Update(func(tx *bolt.Tx) error {
			if a = getAssignmentTx(s, tx, campaignId, infId); a == nil {
				return errAssignmentNotFound
			}
			cmp := getCampaignTx(s, tx, campaignId)
			if cmp == nil {
				return errInactiveCampaign
			}

			if err := a.CanSubmit(); err != nil {
				return err
			}
			if err := common.ValidateDeliverables(req.Deliverables, cmp); err != nil {
				return err
			}

			common.ReconcileEdit(a.SubmittedJobs, req.Deliverables, time.Now(), misc.PseudoUUID)
			a.SubmittedJobs = req.Deliverables

			return saveAssignment(s, tx, a)
		}); err != nil {
			if err == common.ErrNotAccepted {
				c.JSON(403, misc.StatusErr(err.Error()))
				return
			}
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, a)
	}
}
