package common

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/boltdb/bolt"
	"github.com/caringsparks/spark/config"
)

// Campaign carries the requirements this core validates against. Pricing,
// owner approval and checkout live in other services; all we need here is
// the deliverable quota, the allowed platforms and the posting cadence the
// due date is derived from.
type Campaign struct {
	Id   string `json:"id"` // Should not be passed for putCampaign
	Name string `json:"name"`

	OwnerId    string `json:"ownerId,omitempty"`
	OwnerName  string `json:"ownerName,omitempty"`
	OwnerEmail string `json:"ownerEmail,omitempty"`

	Status bool `json:"status"`

	// Number of deliverables required before the assignment may complete
	PostCount int `json:"postCount"`

	// Platforms submissions are allowed on
	Platforms []string `json:"platforms,omitempty"`

	// Human readable cadence, i.e. "3 times per week for 2 weeks = 6 posts in total"
	PostFrequency string `json:"postFrequency,omitempty"`
}

func (cmp *Campaign) IsValid() bool {
	return cmp.PostCount > 0 && len(cmp.Platforms) > 0 && cmp.Status
}

func (cmp *Campaign) HasPlatform(p string) bool {
	for _, allowed := range cmp.Platforms {
		if allowed == p {
			return true
		}
	}
	return false
}

type Campaigns struct {
	mux   sync.RWMutex
	store map[string]*Campaign
}

func NewCampaigns() *Campaigns {
	return &Campaigns{
		store: make(map[string]*Campaign),
	}
}

func (p *Campaigns) Set(db *bolt.DB, cfg *config.Config) {
	cmps := GetAllCampaigns(db, cfg)
	p.mux.Lock()
	p.store = cmps
	p.mux.Unlock()
}

func (p *Campaigns) SetCampaign(id string, cmp *Campaign) {
	p.mux.Lock()
	p.store[id] = cmp
	p.mux.Unlock()
}

func (p *Campaigns) Get(id string) (*Campaign, bool) {
	p.mux.RLock()
	val, ok := p.store[id]
	p.mux.RUnlock()
	return val, ok
}

func (p *Campaigns) GetStore() map[string]*Campaign {
	store := make(map[string]*Campaign)
	p.mux.RLock()
	for cId, cmp := range p.store {
		store[cId] = cmp
	}
	p.mux.RUnlock()
	return store
}

func (p *Campaigns) Len() int {
	p.mux.RLock()
	l := len(p.store)
	p.mux.RUnlock()
	return l
}

func GetAllCampaigns(db *bolt.DB, cfg *config.Config) map[string]*Campaign {
	campaignList := make(map[string]*Campaign)
	if err := db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(cfg.Bucket.Campaign)).ForEach(func(k, v []byte) (err error) {
			var cmp Campaign
			if err := json.Unmarshal(v, &cmp); err != nil {
				log.Println("error when unmarshalling campaign", string(v))
				return nil
			}
			campaignList[cmp.Id] = &cmp
			return
		})
	}); err != nil {
		log.Println("err when getting campaigns", err)
	}
	return campaignList
}

func GetCampaign(cid string, db *bolt.DB, cfg *config.Config) *Campaign {
	var cmp Campaign
	if err := db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(cfg.Bucket.Campaign)).Get([]byte(cid))
		return json.Unmarshal(v, &cmp)
	}); err != nil {
		return nil
	}
	return &cmp
}
