package common

import (
	"strings"
	"time"
)

type AuthorType string

const (
	AuthorBrand      AuthorType = "brand"
	AuthorInfluencer AuthorType = "influencer"
)

// Review is one threaded comment on a submitted deliverable. Threads are
// append-only; comments are never deleted or reordered, and display order is
// creation order regardless of author.
type Review struct {
	Id         string     `json:"id"`
	AuthorType AuthorType `json:"authorType"`
	AuthorId   string     `json:"authorId"`
	AuthorName string     `json:"authorName"`
	Comment    string     `json:"comment"`
	Created    int64      `json:"created"`
	Updated    int64      `json:"updated,omitempty"`
}

// AddReview validates and appends a comment to the deliverable's thread,
// returning the stored entry with its server-assigned id and timestamp.
func (d *Deliverable) AddReview(authorType AuthorType, authorId, authorName, comment string, now time.Time, nextId func() string) (*Review, error) {
	if authorType != AuthorBrand && authorType != AuthorInfluencer {
		return nil, ErrBadAuthorType
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrEmptyComment
	}

	rev := &Review{
		Id:         nextId(),
		AuthorType: authorType,
		AuthorId:   authorId,
		AuthorName: authorName,
		Comment:    comment,
		Created:    now.Unix(),
	}
	d.Reviews = append(d.Reviews, rev)
	return rev, nil
}
