package server

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

///////// Review threads /////////

// addReview appends a comment to a submitted deliverable's thread and
// returns the stored entry with its server-assigned id and timestamp.
// Threads are shared between both parties and strictly append-only.
func addReview(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			campaignId    = c.Param("campaignId")
			deliverableId = c.Param("deliverableId")
		)

		var body struct {
			AuthorType string `json:"authorType"`
			AuthorId   string `json:"authorId"`
			AuthorName string `json:"authorName"`
			Comment    string `json:"comment"`
		}
		if err := misc.BindJSON(c, &body); err != nil {
			c.JSON(400, misc.StatusErr("Error unmarshalling request body"))
			return
		}

		var (
			a   *common.Assignment
			rev *common.Review
		)
		if err := s.db.Update(func(tx *bolt.Tx) error {
			// the deliverable lives inside one of the campaign's assignments
			b := misc.GetBucket(tx, s.Cfg.Bucket.Assignment)
			prefix := []byte(campaignId + ":")
			cur := b.Cursor()
			for k, v := cur.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = cur.Next() {
				var cand common.Assignment
				if json.Unmarshal(v, &cand) != nil {
					continue
				}
				if cand.FindJob(deliverableId) != nil {
					a = &cand
					break
				}
			}
			if a == nil {
				return common.ErrNotFound
			}

			job := a.FindJob(deliverableId)
			var err error
			if rev, err = job.AddReview(common.AuthorType(body.AuthorType), body.AuthorId, body.AuthorName, body.Comment, time.Now(), misc.PseudoUUID); err != nil {
				return err
			}

			return saveAssignment(s, tx, a)
		}); err != nil {
			c.JSON(400, misc.StatusErr(err.Error()))
			return
		}

		go reviewEmail(s, s.getCampaignCached(campaignId), a, rev)

		c.JSON(200, rev)
	}
}
