package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"time"

	"github.com/missionMeteora/mandrill"
)

var (
	ErrInvalidConfig = errors.New("invalid config")
)

func New(loc string) (*Config, error) {
	var c Config

	f, err := os.Open(loc)
	if err != nil {
		log.Println("Config error", err)
		return nil, err
	}

	if err := json.NewDecoder(f).Decode(&c); err != nil {
		log.Println("Config error", err)
		return nil, err
	}

	if c.Bucket.Campaign == "" || c.Bucket.Assignment == "" || c.Bucket.Stash == "" || c.Bucket.ApiKey == "" {
		return nil, ErrInvalidConfig
	}
	c.Bucket.All = []string{c.Bucket.Campaign, c.Bucket.Assignment, c.Bucket.Stash, c.Bucket.ApiKey}

	return &c, nil
}

type Config struct {
	Host string `json:"host"`
	Port string `json:"port"`

	DBPath string `json:"dbPath"`
	DBName string `json:"dbName"`

	Sandbox bool `json:"sandbox"`

	EngineUpdate  time.Duration `json:"engineUpdate"`  // In minutes
	OverdueSweep  time.Duration `json:"overdueSweep"`  // In hours
	AdminApiKey   string        `json:"adminApiKey"`   // bootstrap credential for the seeded key
	AdminApiKeyId string        `json:"adminApiKeyId"` // defaults to "1"

	Mail struct {
		Key        string `json:"key"`
		SubAccount string `json:"subAccount"`
		From       string `json:"from"`
		FromName   string `json:"fromName"`
		ReplyTo    string `json:"replyTo"`
		AdminEmail string `json:"adminEmail"`
	} `json:"mail"`

	Bucket struct {
		Campaign   string   `json:"campaign"`
		Assignment string   `json:"assignment"`
		Stash      string   `json:"stash"`
		ApiKey     string   `json:"apiKey"`
		All        []string `json:"-"`
	} `json:"bucket"`

	mailClient      *mandrill.Client
	replyMailClient *mandrill.Client
}

// MailClient is the outbound-only sender (no-reply address).
func (c *Config) MailClient() *mandrill.Client {
	if c.Mail.Key == "" {
		return nil
	}
	if c.mailClient == nil {
		c.mailClient = mandrill.New(c.Mail.Key, c.Mail.SubAccount, c.Mail.From, c.Mail.FromName)
	}
	return c.mailClient
}

// ReplyMailClient sends from the monitored reply address so that campaign
// owners and influencers can answer the notification directly.
func (c *Config) ReplyMailClient() *mandrill.Client {
	if c.Mail.Key == "" {
		return nil
	}
	if c.replyMailClient == nil {
		c.replyMailClient = mandrill.New(c.Mail.Key, c.Mail.SubAccount, c.Mail.ReplyTo, c.Mail.FromName)
	}
	return c.replyMailClient
}
