// Package client is the influencer-side view of the lifecycle API: an
// immutable snapshot of the assignment list that every query reads, and
// mutation calls that wait for the server and then re-fetch the whole list.
// The one exception is AddComment, which patches the snapshot optimistically
// and reconciles (or rolls back) once the server answers.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/caringsparks/spark/internal/auth"
	"github.com/caringsparks/spark/internal/common"
)

// Assignment is the wire shape the server returns: the stored record plus
// the derived due-date values.
type Assignment struct {
	common.Assignment
	DueDate       string `json:"dueDate"`
	DaysRemaining int    `json:"daysRemaining"`
	Overdue       bool   `json:"overdue"`
}

type Client struct {
	addr   string // ".../api/v1/"
	apiKey string

	HTTPClient *http.Client

	mux      sync.RWMutex
	snapshot []*Assignment

	tmpSeq uint64
}

func New(addr, apiKey string) *Client {
	if !strings.HasSuffix(addr, "/") {
		addr += "/"
	}
	return &Client{
		addr:       addr,
		apiKey:     apiKey,
		HTTPClient: http.DefaultClient,
	}
}

func (c *Client) do(method, endpoint string, reqData, respData interface{}) error {
	var body *bytes.Buffer
	if reqData != nil {
		body = &bytes.Buffer{}
		if err := json.NewEncoder(body).Encode(reqData); err != nil {
			return err
		}
	}

	var (
		r   *http.Request
		err error
	)
	if body != nil {
		r, err = http.NewRequest(method, c.addr+endpoint, body)
	} else {
		r, err = http.NewRequest(method, c.addr+endpoint, nil)
	}
	if err != nil {
		return err
	}
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add(auth.ApiKeyHeader, c.apiKey)

	resp, err := c.HTTPClient.Do(r)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		var st struct {
			Msg string `json:"msg"`
		}
		json.NewDecoder(resp.Body).Decode(&st)
		if st.Msg == "" {
			st.Msg = resp.Status
		}
		return fmt.Errorf("%s %s: %s", method, endpoint, st.Msg)
	}

	if respData == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(respData)
}

// Refresh replaces the snapshot with the server's authoritative list.
func (c *Client) Refresh(influencerId string) error {
	var list []*Assignment
	if err := c.do("GET", "assignments/"+influencerId, nil, &list); err != nil {
		return err
	}

	c.mux.Lock()
	c.snapshot = list
	c.mux.Unlock()
	return nil
}

// Assignments returns the current snapshot. Callers must treat it as
// read-only; mutating operations go through the API and Refresh.
func (c *Client) Assignments() []*Assignment {
	c.mux.RLock()
	snap := c.snapshot
	c.mux.RUnlock()
	return snap
}

func (c *Client) Assignment(campaignId string) (*Assignment, bool) {
	for _, a := range c.Assignments() {
		if a.CampaignId == campaignId {
			return a, true
		}
	}
	return nil, false
}

func (c *Client) Respond(influencerId, campaignId, decision, message string) error {
	in := map[string]string{"decision": decision, "message": message}
	if err := c.do("POST", "respond/"+influencerId+"/"+campaignId, in, nil); err != nil {
		return err
	}
	return c.Refresh(influencerId)
}

func (c *Client) SubmitDeliverables(influencerId, campaignId string, dels []*common.Deliverable) error {
	in := map[string]interface{}{"deliverables": dels}
	if err := c.do("POST", "submitDeliverables/"+influencerId+"/"+campaignId, in, nil); err != nil {
		return err
	}
	return c.Refresh(influencerId)
}

func (c *Client) UpdateDeliverables(influencerId, campaignId string, dels []*common.Deliverable) error {
	in := map[string]interface{}{"deliverables": dels}
	if err := c.do("PUT", "updateDeliverables/"+influencerId+"/"+campaignId, in, nil); err != nil {
		return err
	}
	return c.Refresh(influencerId)
}

func (c *Client) SaveStash(influencerId, campaignId, name string, dels []*common.Deliverable) (string, error) {
	in := map[string]interface{}{"stashName": name, "deliverables": dels}
	var st struct {
		Id string `json:"id"`
	}
	if err := c.do("POST", "stashDeliverables/"+influencerId+"/"+campaignId, in, &st); err != nil {
		return "", err
	}
	return st.Id, nil
}

func (c *Client) Stashes(influencerId, campaignId string) ([]*common.Stash, error) {
	var out []*common.Stash
	err := c.do("GET", "stashes/"+influencerId+"/"+campaignId, nil, &out)
	return out, err
}

// LoadStash fetches a draft for copying into the editing buffer; the stash
// itself stays put.
func (c *Client) LoadStash(influencerId, campaignId, stashId string) (*common.Stash, error) {
	var st common.Stash
	if err := c.do("GET", "stash/"+influencerId+"/"+campaignId+"/"+stashId, nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (c *Client) DeleteStash(influencerId, campaignId, stashId string) error {
	return c.do("DELETE", "stash/"+influencerId+"/"+campaignId+"/"+stashId, nil, nil)
}

func (c *Client) DeleteAllStashes(influencerId, campaignId string) error {
	return c.do("DELETE", "stashes/"+influencerId+"/"+campaignId, nil, nil)
}

func (c *Client) MarkComplete(influencerId, campaignId string) error {
	if err := c.do("POST", "markComplete/"+influencerId+"/"+campaignId, nil, nil); err != nil {
		return err
	}
	return c.Refresh(influencerId)
}

// AddComment applies an optimistic local copy of the comment immediately,
// then reconciles: on success the temporary entry is replaced by the
// server-confirmed one; on failure the patch is rolled back and the input
// text is returned so the UI can restore it.
func (c *Client) AddComment(influencerId, campaignId, deliverableId string, rev common.Review) (restore string, err error) {
	tmpId := fmt.Sprintf("tmp-%d", atomic.AddUint64(&c.tmpSeq, 1))

	tmp := rev
	tmp.Id = tmpId
	c.patchThread(campaignId, deliverableId, func(reviews []*common.Review) []*common.Review {
		return append(reviews, &tmp)
	})

	in := map[string]string{
		"authorType": string(rev.AuthorType),
		"authorId":   rev.AuthorId,
		"authorName": rev.AuthorName,
		"comment":    rev.Comment,
	}
	var confirmed common.Review
	if err = c.do("POST", "addReview/"+campaignId+"/"+deliverableId, in, &confirmed); err != nil {
		// roll back and hand the text back for the input box
		c.patchThread(campaignId, deliverableId, func(reviews []*common.Review) []*common.Review {
			out := reviews[:0]
			for _, r := range reviews {
				if r.Id != tmpId {
					out = append(out, r)
				}
			}
			return out
		})
		return rev.Comment, err
	}

	c.patchThread(campaignId, deliverableId, func(reviews []*common.Review) []*common.Review {
		for i, r := range reviews {
			if r.Id == tmpId {
				reviews[i] = &confirmed
			}
		}
		return reviews
	})
	return "", nil
}

// patchThread swaps in a new snapshot where the given deliverable's review
// thread has been rewritten by fn. Only the affected assignment and
// deliverable are copied; everything else is shared with the old snapshot,
// which stays valid for readers holding it.
func (c *Client) patchThread(campaignId, deliverableId string, fn func([]*common.Review) []*common.Review) {
	c.mux.Lock()
	defer c.mux.Unlock()

	next := make([]*Assignment, len(c.snapshot))
	copy(next, c.snapshot)

	for i, a := range next {
		if a.CampaignId != campaignId {
			continue
		}
		for j, job := range a.SubmittedJobs {
			if job.Id != deliverableId {
				continue
			}

			ac := *a
			jobs := make([]*common.Deliverable, len(a.SubmittedJobs))
			copy(jobs, a.SubmittedJobs)
			jc := *job
			jc.Reviews = fn(append([]*common.Review{}, job.Reviews...))
			jobs[j] = &jc
			ac.SubmittedJobs = jobs
			next[i] = &ac

			c.snapshot = next
			return
		}
	}
}
