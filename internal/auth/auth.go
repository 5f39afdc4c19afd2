// Package auth is the opaque-credential collaborator the lifecycle core
// requires: every API call carries an api key, verified here against the
// key bucket. Who issues keys (the account service) is out of scope; this
// package only checks them.
package auth

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/boltdb/bolt"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/caringsparks/spark/config"
	"github.com/caringsparks/spark/misc"
)

const (
	ApiKeyHeader = `x-apikey`
)

type Auth struct {
	db  *bolt.DB
	cfg *config.Config
}

func New(db *bolt.DB, cfg *config.Config) *Auth {
	return &Auth{
		db:  db,
		cfg: cfg,
	}
}

// Key is a stored credential. Only the bcrypt hash of the secret is kept.
type Key struct {
	Id      string `json:"id"`
	Hash    string `json:"hash"`
	Note    string `json:"note,omitempty"`
	Created int64  `json:"created"`
}

func HashSecret(secret string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	return string(h), err
}

func CheckSecret(hash, secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// CreateKeyTx stores a new api key and returns its id.
func (a *Auth) CreateKeyTx(tx *bolt.Tx, note, secret string) (string, error) {
	id, err := misc.GetNextIndex(tx, a.cfg.Bucket.ApiKey)
	if err != nil {
		return "", err
	}

	hash, err := HashSecret(secret)
	if err != nil {
		return "", err
	}

	key := &Key{
		Id:      id,
		Hash:    hash,
		Note:    note,
		Created: time.Now().Unix(),
	}
	return id, misc.PutTxJson(tx, a.cfg.Bucket.ApiKey, id, key)
}

// EnsureAdminKey seeds the bootstrap credential from config so a fresh
// database is immediately usable (and the test harness can sign requests).
// On a fresh database the index hands out the configured id ("1").
func (a *Auth) EnsureAdminKey() error {
	if a.cfg.AdminApiKey == "" {
		return nil
	}
	return a.db.Update(func(tx *bolt.Tx) error {
		id := a.cfg.AdminApiKeyId
		if id == "" {
			id = "1"
		}
		if v := misc.GetBucket(tx, a.cfg.Bucket.ApiKey).Get([]byte(id)); len(v) != 0 {
			return nil
		}
		_, err := a.CreateKeyTx(tx, "bootstrap admin key", a.cfg.AdminApiKey)
		return err
	})
}

func (a *Auth) verify(header string) bool {
	// header is "<keyId>:<secret>"
	idx := strings.IndexByte(header, ':')
	if idx <= 0 {
		return false
	}
	id, secret := header[:idx], header[idx+1:]

	var key Key
	if err := a.db.View(func(tx *bolt.Tx) error {
		v := misc.GetBucket(tx, a.cfg.Bucket.ApiKey).Get([]byte(id))
		return json.Unmarshal(v, &key)
	}); err != nil {
		return false
	}
	return CheckSecret(key.Hash, secret)
}

// CheckApiKey rejects requests without a valid credential before any
// handler runs.
func (a *Auth) CheckApiKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !a.verify(c.Request.Header.Get(ApiKeyHeader)) {
			misc.WriteJSON(c, 401, misc.StatusErr("unauthorized"))
			c.Abort()
			return
		}
		c.Next()
	}
}
