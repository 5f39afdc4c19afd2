package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caringsparks/spark/internal/auth"
	"github.com/caringsparks/spark/internal/common"
)

const testApiKey = "1:sandbox-admin-secret"

func stubServer(t *testing.T, failReviews *bool) *httptest.Server {
	t.Helper()

	snapshot := []*Assignment{{
		Assignment: common.Assignment{
			CampaignId:   "7",
			InfluencerId: "inf-1",
			Status:       common.StatusAccepted,
			Progress:     common.ProgressInProgress,
			SubmittedJobs: []*common.Deliverable{{
				Id:       "job-1",
				Platform: "twitter",
				URL:      "https://t.co/1",
				Reviews: []*common.Review{
					{Id: "r-1", AuthorType: common.AuthorBrand, Comment: "tag us", Created: 1},
				},
			}},
		},
		DueDate:       "2024-03-15",
		DaysRemaining: 5,
	}}

	var reviewSeq int
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(auth.ApiKeyHeader) != testApiKey {
			w.WriteHeader(401)
			json.NewEncoder(w).Encode(map[string]string{"status": "error", "msg": "unauthorized"})
			return
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/api/v1/assignments/"):
			json.NewEncoder(w).Encode(snapshot)
		case strings.HasPrefix(r.URL.Path, "/api/v1/addReview/"):
			if *failReviews {
				w.WriteHeader(400)
				json.NewEncoder(w).Encode(map[string]string{"status": "error", "msg": "comment cannot be empty"})
				return
			}
			var in map[string]string
			json.NewDecoder(r.Body).Decode(&in)
			reviewSeq++
			json.NewEncoder(w).Encode(&common.Review{
				Id:         "r-confirmed-" + in["authorId"],
				AuthorType: common.AuthorType(in["authorType"]),
				AuthorId:   in["authorId"],
				AuthorName: in["authorName"],
				Comment:    in["comment"],
				Created:    int64(100 + reviewSeq),
			})
		default:
			w.WriteHeader(404)
		}
	}))
}

func TestRefreshAndQueries(t *testing.T) {
	fail := false
	ts := stubServer(t, &fail)
	defer ts.Close()

	c := New(ts.URL+"/api/v1", testApiKey)
	require.NoError(t, c.Refresh("inf-1"))

	list := c.Assignments()
	require.Len(t, list, 1)
	assert.Equal(t, "7", list[0].CampaignId)
	assert.Equal(t, 5, list[0].DaysRemaining)

	a, ok := c.Assignment("7")
	require.True(t, ok)
	assert.Equal(t, "2024-03-15", a.DueDate)

	_, ok = c.Assignment("nope")
	assert.False(t, ok)
}

func TestBadApiKey(t *testing.T) {
	fail := false
	ts := stubServer(t, &fail)
	defer ts.Close()

	c := New(ts.URL+"/api/v1", "1:wrong")
	err := c.Refresh("inf-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")
}

func TestAddCommentConfirms(t *testing.T) {
	fail := false
	ts := stubServer(t, &fail)
	defer ts.Close()

	c := New(ts.URL+"/api/v1", testApiKey)
	require.NoError(t, c.Refresh("inf-1"))

	// readers holding the old snapshot must never see the patch
	before, _ := c.Assignment("7")

	restore, err := c.AddComment("inf-1", "7", "job-1", common.Review{
		AuthorType: common.AuthorInfluencer,
		AuthorId:   "inf-1",
		AuthorName: "Jo",
		Comment:    "fixed the caption",
	})
	require.NoError(t, err)
	assert.Empty(t, restore)

	a, ok := c.Assignment("7")
	require.True(t, ok)
	revs := a.SubmittedJobs[0].Reviews
	require.Len(t, revs, 2)
	assert.Equal(t, "r-1", revs[0].Id)
	assert.Equal(t, "r-confirmed-inf-1", revs[1].Id)
	assert.Equal(t, "fixed the caption", revs[1].Comment)
	assert.NotZero(t, revs[1].Created)
	// no temporary id left behind
	for _, r := range revs {
		assert.False(t, strings.HasPrefix(r.Id, "tmp-"), r.Id)
	}

	assert.Len(t, before.SubmittedJobs[0].Reviews, 1)
}

func TestAddCommentRollsBack(t *testing.T) {
	fail := true
	ts := stubServer(t, &fail)
	defer ts.Close()

	c := New(ts.URL+"/api/v1", testApiKey)
	fail = false
	require.NoError(t, c.Refresh("inf-1"))
	fail = true

	restore, err := c.AddComment("inf-1", "7", "job-1", common.Review{
		AuthorType: common.AuthorInfluencer,
		AuthorId:   "inf-1",
		AuthorName: "Jo",
		Comment:    "my draft text",
	})
	require.Error(t, err)
	// the typed text comes back so the input box can be restored
	assert.Equal(t, "my draft text", restore)

	a, ok := c.Assignment("7")
	require.True(t, ok)
	revs := a.SubmittedJobs[0].Reviews
	require.Len(t, revs, 1)
	assert.Equal(t, "r-1", revs[0].Id)
}
