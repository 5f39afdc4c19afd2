package server

import (
	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/misc"
)

///////// Api keys /////////

// createApiKey mints a credential for a collaborating service. The secret
// is generated server side and returned exactly once; only its hash is
// stored.
func createApiKey(s *Server) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body struct {
			Note string `json:"note"`
		}
		// note is optional
		misc.BindJSON(c, &body)

		var (
			id     string
			secret = misc.PseudoUUID()
		)
		if err := s.db.Update(func(tx *bolt.Tx) (err error) {
			id, err = s.auth.CreateKeyTx(tx, body.Note, secret)
			return
		}); err != nil {
			c.JSON(500, misc.StatusErr(err.Error()))
			return
		}

		c.JSON(200, gin.H{
			"status": "success",
			"id":     id,
			"apiKey": id + ":" + secret,
		})
	}
}
