package server

import (
	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"

	"github.com/caringsparks/spark/config"
	"github.com/caringsparks/spark/internal/auth"
	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

type Server struct {
	Cfg *config.Config

	r    *gin.Engine
	db   *bolt.DB
	auth *auth.Auth

	// Live cache of campaigns, refreshed by the lifecycle engine
	Campaigns *common.Campaigns
}

func New(cfg *config.Config, r *gin.Engine) (*Server, error) {
	db := misc.OpenDB(cfg.DBPath, cfg.DBName)

	srv := &Server{
		Cfg:       cfg,
		r:         r,
		db:        db,
		auth:      auth.New(db, cfg),
		Campaigns: common.NewCampaigns(),
	}

	if err := srv.initializeDBs(cfg); err != nil {
		return nil, err
	}

	if err := srv.auth.EnsureAdminKey(); err != nil {
		return nil, err
	}

	if err := newLifecycleEngine(srv); err != nil {
		return nil, err
	}

	srv.initializeRoutes(r)

	return srv, nil
}

func (srv *Server) initializeDBs(cfg *config.Config) error {
	return srv.db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte("index")); err != nil {
			return err
		}
		for _, val := range cfg.Bucket.All {
			if _, err := tx.CreateBucketIfNotExists([]byte(val)); err != nil {
				return err
			}
			if err := misc.InitIndex(tx, val, 1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (srv *Server) initializeRoutes(r *gin.Engine) {
	verify := srv.auth.CheckApiKey()
	api := r.Group("/api/v1", verify)

	// campaign requirements (seeded by the external campaign service)
	api.POST("/campaign", putCampaign(srv))
	api.GET("/campaign/:id", getCampaign(srv))
	api.POST("/assignCampaign/:influencerId/:campaignId", assignCampaign(srv))

	// assignment lifecycle
	api.GET("/assignments/:influencerId", getAssignments(srv))
	api.GET("/assignment/:influencerId/:campaignId", getAssignment(srv))
	api.POST("/respond/:influencerId/:campaignId", respondToAssignment(srv))
	api.POST("/markComplete/:influencerId/:campaignId", markComplete(srv))
	api.GET("/overdueAssignments", getOverdueAssignments(srv))

	// deliverables
	api.POST("/submitDeliverables/:influencerId/:campaignId", submitDeliverables(srv))
	api.PUT("/updateDeliverables/:influencerId/:campaignId", updateDeliverables(srv))

	// stashes
	api.POST("/stashDeliverables/:influencerId/:campaignId", stashDeliverables(srv))
	api.GET("/stashes/:influencerId/:campaignId", getStashes(srv))
	api.GET("/stash/:influencerId/:campaignId/:stashId", loadStash(srv))
	api.DELETE("/stash/:influencerId/:campaignId/:stashId", deleteStash(srv))
	api.DELETE("/stashes/:influencerId/:campaignId", deleteAllStashes(srv))

	// review threads
	api.POST("/addReview/:campaignId/:deliverableId", addReview(srv))

	// credentials for collaborating services
	api.POST("/apiKey", createApiKey(srv))
}

func (srv *Server) Run() error {
	return srv.r.Run(srv.Cfg.Host + ":" + srv.Cfg.Port)
}

func (srv *Server) Close() error {
	return srv.db.Close()
}
