package server

import (
	"net/http"
	"testing"

	"github.com/swayops/resty"

	"github.com/caringsparks/spark/internal/auth"
	"github.com/caringsparks/spark/internal/common"
	"github.com/caringsparks/spark/misc"
)

func createCampaign(t *testing.T, rst *resty.Client, body M) string {
	t.Helper()

	var st misc.Status
	r := rst.DoTesting(t, "POST", "/campaign", body, &st)
	if r.Status != 200 || st.Id == "" {
		t.Fatal("failed to create campaign", r.Status, st)
	}
	return st.Id
}

func getAssignmentView(t *testing.T, rst *resty.Client, infId, cmpId string) *decoratedAssignment {
	t.Helper()

	var out decoratedAssignment
	r := rst.DoTesting(t, "GET", "/assignment/"+infId+"/"+cmpId, nil, &out)
	if r.Status != 200 {
		t.Fatal("failed to get assignment", r.Status)
	}
	return &out
}

func TestCampaignValidation(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	for _, tr := range [...]*resty.TestRequest{
		// no post count
		{Method: "POST", Path: "/campaign", Data: M{"name": "No Quota", "platforms": []string{"twitter"}}, ExpectedStatus: 400, ExpectedData: nil},
		// unknown platform
		{Method: "POST", Path: "/campaign", Data: M{"name": "Bad Platform", "postCount": 1, "platforms": []string{"myspace"}}, ExpectedStatus: 400, ExpectedData: nil},
		// no platforms at all
		{Method: "POST", Path: "/campaign", Data: M{"name": "No Platforms", "postCount": 1}, ExpectedStatus: 400, ExpectedData: nil},
		// unknown campaign
		{Method: "GET", Path: "/campaign/999999", Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		// assigning against a missing campaign
		{Method: "POST", Path: "/assignCampaign/someone/999999", Data: nil, ExpectedStatus: 400, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}
}

func TestUnauthorized(t *testing.T) {
	// raw request, no api key header
	req, err := http.NewRequest("GET", ts.URL+"/api/v1/assignments/whoever", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 401 {
		t.Fatal("expected 401 without an api key, got", resp.StatusCode)
	}
}

func TestAssignmentLifecycle(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-lifecycle"
	cmpId := createCampaign(t, rst, M{
		"name":          "Winter Launch",
		"ownerName":     "Acme",
		"ownerEmail":    "acme@brand.test",
		"postCount":     2,
		"platforms":     []string{"twitter", "instagram"},
		"postFrequency": "3 times per week for 2 weeks = 6 posts in total",
	})

	goodPost := M{
		"platform":    "twitter",
		"url":         "https://twitter.com/acme/status/1",
		"description": "launch teaser",
		"metrics":     M{"views": 1000, "likes": 50},
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// no double assignment while the first one is live
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 400, ExpectedData: nil},

		// submissions are rejected before acceptance
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{goodPost}}, ExpectedStatus: 403, ExpectedData: nil},

		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "accepted", "message": "excited to work on this"}, ExpectedStatus: 200, ExpectedData: nil},
		// responding twice is an invalid transition
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "declined"}, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`cannot move assignment`)},
		// bogus decision
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "maybe"}, ExpectedStatus: 400, ExpectedData: nil},

		// bad url fails the whole set
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "ftp://nope", "description": "x"},
		}}, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`url`)},
		// platform outside the campaign's set
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "youtube", "url": "https://youtu.be/x", "description": "x"},
		}}, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`platform`)},
		// negative metrics
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "https://t.co/x", "description": "x", "metrics": M{"views": -1}},
		}}, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`metrics`)},
		// empty set
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{}}, ExpectedStatus: 400, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	// none of the rejected submissions should have stuck
	a := getAssignmentView(t, rst, infId, cmpId)
	if len(a.SubmittedJobs) != 0 {
		t.Fatal("rejected submissions must not mutate the assignment")
	}
	if a.Assignment.Status != common.StatusAccepted || a.Assignment.Progress != common.ProgressInProgress {
		t.Fatal("unexpected lifecycle state", a.Assignment.Status, a.Assignment.Progress)
	}
	if a.DaysRemaining != 14 {
		t.Fatal("expected 14 days remaining for a two week cadence, got", a.DaysRemaining)
	}
	if a.Overdue {
		t.Fatal("fresh assignment cannot be overdue")
	}

	// first deliverable lands, the gate still holds
	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{goodPost}}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/markComplete/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 400, ExpectedData: M{"submitted": 1, "required": 2}},
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "instagram", "url": "https://instagr.am/p/2", "description": "launch day"},
		}}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/markComplete/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// retry is a no-op success
		{Method: "POST", Path: "/markComplete/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// no edits after completion
		{Method: "PUT", Path: "/updateDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{goodPost}}, ExpectedStatus: 400, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	a = getAssignmentView(t, rst, infId, cmpId)
	if a.Assignment.Progress != common.ProgressCompleted || a.Assignment.Completed == 0 {
		t.Fatal("assignment should be completed")
	}
	if len(a.SubmittedJobs) != 2 {
		t.Fatal("expected 2 submitted deliverables, got", len(a.SubmittedJobs))
	}
	if a.SubmittedJobs[0].Submitted == 0 || a.SubmittedJobs[0].Id == "" {
		t.Fatal("submission stamp missing")
	}
	if a.DaysRemaining != 0 {
		t.Fatal("completed assignments report 0 days remaining")
	}

	completedAt := a.Assignment.Completed
	rst.DoTesting(t, "POST", "/markComplete/"+infId+"/"+cmpId, nil, nil)
	if getAssignmentView(t, rst, infId, cmpId).Assignment.Completed != completedAt {
		t.Fatal("retrying markComplete must not move the completion stamp")
	}
}

func TestDeclineIsTerminal(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-decline"
	cmpId := createCampaign(t, rst, M{
		"name":      "Spring Push",
		"postCount": 1,
		"platforms": []string{"twitter"},
	})

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "declined", "message": "not a fit"}, ExpectedStatus: 200, ExpectedData: nil},
		// declined is terminal for this core
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "accepted"}, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "https://t.co/x", "description": "x"},
		}}, ExpectedStatus: 403, ExpectedData: nil},
		{Method: "POST", Path: "/markComplete/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		// only an external re-assignment resets a declined pairing
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	a := getAssignmentView(t, rst, infId, cmpId)
	if a.Assignment.Status != common.StatusPending || a.Assignment.Responded != 0 {
		t.Fatal("re-assignment should produce a fresh pending record")
	}
}

func TestStashRoundTrip(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-stash"
	cmpId := createCampaign(t, rst, M{
		"name":      "Drafts",
		"postCount": 3,
		"platforms": []string{"instagram"},
	})

	drafts := []M{
		{"platform": "instagram", "url": "https://instagr.am/p/a", "description": "first cut"},
		{"platform": "instagram", "url": "https://instagr.am/p/b", "description": "second cut"},
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// drafts are held to submission-grade completeness
		{Method: "POST", Path: "/stashDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "instagram", "url": "https://instagr.am/p/a"},
		}}, ExpectedStatus: 400, ExpectedData: resty.PartialMatch(`description`)},
		{Method: "POST", Path: "/stashDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{}}, ExpectedStatus: 400, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	var first, second misc.Status
	if r := rst.DoTesting(t, "POST", "/stashDeliverables/"+infId+"/"+cmpId, M{"stashName": "v1", "deliverables": drafts}, &first); r.Status != 200 {
		t.Fatal("failed to stash")
	}
	if r := rst.DoTesting(t, "POST", "/stashDeliverables/"+infId+"/"+cmpId, M{"deliverables": drafts[:1]}, &second); r.Status != 200 {
		t.Fatal("failed to stash")
	}

	var list []*common.Stash
	rst.DoTesting(t, "GET", "/stashes/"+infId+"/"+cmpId, nil, &list)
	if len(list) != 2 || list[0].Id != first.Id || list[1].Id != second.Id {
		t.Fatal("stash list should be in insertion order", list)
	}
	if list[0].Name != "v1" || list[1].Name == "" {
		t.Fatal("stash names wrong; the second should have been defaulted")
	}

	// loading copies the draft out without consuming it
	var loaded common.Stash
	rst.DoTesting(t, "GET", "/stash/"+infId+"/"+cmpId+"/"+first.Id, nil, &loaded)
	if len(loaded.Deliverables) != 2 ||
		loaded.Deliverables[0].URL != "https://instagr.am/p/a" ||
		loaded.Deliverables[1].Description != "second cut" {
		t.Fatal("loaded stash does not match what was saved")
	}

	for _, tr := range [...]*resty.TestRequest{
		{Method: "GET", Path: "/stash/" + infId + "/" + cmpId + "/" + first.Id, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "DELETE", Path: "/stash/" + infId + "/" + cmpId + "/" + first.Id, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// deleting the same id again is a harmless no-op
		{Method: "DELETE", Path: "/stash/" + infId + "/" + cmpId + "/" + first.Id, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/stash/" + infId + "/" + cmpId + "/" + first.Id, Data: nil, ExpectedStatus: 400, ExpectedData: nil},
		{Method: "DELETE", Path: "/stashes/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	rst.DoTesting(t, "GET", "/stashes/"+infId+"/"+cmpId, nil, &list)
	if len(list) != 0 {
		t.Fatal("deleteAll should empty the stash list")
	}

	// none of the stash traffic may leak into the submission path
	if a := getAssignmentView(t, rst, infId, cmpId); len(a.SubmittedJobs) != 0 {
		t.Fatal("stashing must never submit")
	}
}

func TestReviewThreads(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-reviews"
	cmpId := createCampaign(t, rst, M{
		"name":       "Thread Test",
		"ownerName":  "Acme",
		"ownerEmail": "acme@brand.test",
		"postCount":  1,
		"platforms":  []string{"twitter", "youtube"},
	})

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "accepted"}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "https://t.co/post1", "description": "the post"},
		}}, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	a := getAssignmentView(t, rst, infId, cmpId)
	jobId := a.SubmittedJobs[0].Id

	var c1, c2 common.Review
	if r := rst.DoTesting(t, "POST", "/addReview/"+cmpId+"/"+jobId, M{
		"authorType": "brand", "authorId": "brand-1", "authorName": "Acme", "comment": "please tag us",
	}, &c1); r.Status != 200 || c1.Id == "" || c1.Created == 0 {
		t.Fatal("brand comment not stored", c1)
	}
	if r := rst.DoTesting(t, "POST", "/addReview/"+cmpId+"/"+jobId, M{
		"authorType": "influencer", "authorId": infId, "authorName": "Jo", "comment": "done, updated the caption",
	}, &c2); r.Status != 200 {
		t.Fatal("influencer comment not stored")
	}

	for _, tr := range [...]*resty.TestRequest{
		// whitespace-only comments are rejected
		{Method: "POST", Path: "/addReview/" + cmpId + "/" + jobId, Data: M{"authorType": "brand", "authorId": "brand-1", "authorName": "Acme", "comment": "   "}, ExpectedStatus: 400, ExpectedData: nil},
		// unknown author type
		{Method: "POST", Path: "/addReview/" + cmpId + "/" + jobId, Data: M{"authorType": "bystander", "authorId": "x", "authorName": "X", "comment": "hi"}, ExpectedStatus: 400, ExpectedData: nil},
		// unknown deliverable
		{Method: "POST", Path: "/addReview/" + cmpId + "/nope", Data: M{"authorType": "brand", "authorId": "b", "authorName": "B", "comment": "hi"}, ExpectedStatus: 400, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	// creation order, both author types interleaved
	a = getAssignmentView(t, rst, infId, cmpId)
	revs := a.SubmittedJobs[0].Reviews
	if len(revs) != 2 || revs[0].Id != c1.Id || revs[1].Id != c2.Id {
		t.Fatal("review thread out of order")
	}
	if revs[0].AuthorType != common.AuthorBrand || revs[1].AuthorType != common.AuthorInfluencer {
		t.Fatal("author types lost")
	}

	// positional reconcile: same slot, same platform keeps the thread
	for _, tr := range [...]*resty.TestRequest{
		{Method: "PUT", Path: "/updateDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "https://t.co/post1-fixed", "description": "the post, tagged"},
			{"platform": "youtube", "url": "https://youtu.be/extra", "description": "bonus video"},
		}}, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	a = getAssignmentView(t, rst, infId, cmpId)
	if len(a.SubmittedJobs) != 2 {
		t.Fatal("edit should have replaced the set wholesale")
	}
	if a.SubmittedJobs[0].Id != jobId || len(a.SubmittedJobs[0].Reviews) != 2 {
		t.Fatal("edit lost the review thread on the unchanged slot")
	}
	if a.SubmittedJobs[0].URL != "https://t.co/post1-fixed" {
		t.Fatal("edit did not update the content")
	}
	if a.SubmittedJobs[1].Id == jobId || len(a.SubmittedJobs[1].Reviews) != 0 {
		t.Fatal("new trailing item should start a fresh thread")
	}

	// switching the platform in a slot starts the post over
	for _, tr := range [...]*resty.TestRequest{
		{Method: "PUT", Path: "/updateDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "youtube", "url": "https://youtu.be/replacement", "description": "moved to video"},
		}}, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	a = getAssignmentView(t, rst, infId, cmpId)
	if len(a.SubmittedJobs) != 1 || a.SubmittedJobs[0].Id == jobId || len(a.SubmittedJobs[0].Reviews) != 0 {
		t.Fatal("platform switch should discard the old thread")
	}
}

func TestOverdueSweep(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-overdue"
	// a zero day window is due the moment it is assigned
	cmpId := createCampaign(t, rst, M{
		"name":          "Flash Blitz",
		"postCount":     1,
		"platforms":     []string{"twitter"},
		"postFrequency": "1 post for 0 days = launch blitz",
	})

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		// pending work is never overdue no matter the clock
		{Method: "GET", Path: "/assignment/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: M{"overdue": false}},
		{Method: "POST", Path: "/respond/" + infId + "/" + cmpId, Data: M{"decision": "accepted"}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/assignment/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: M{"overdue": true}},
	} {
		tr.Run(t, rst)
	}

	var overdue []*decoratedAssignment
	rst.DoTesting(t, "GET", "/overdueAssignments", nil, &overdue)
	var found bool
	for _, a := range overdue {
		if a.CampaignId == cmpId && a.InfluencerId == infId {
			found = true
			if a.DaysRemaining > 0 {
				t.Fatal("overdue work cannot have days remaining")
			}
		}
	}
	if !found {
		t.Fatal("accepted, past-due assignment missing from the overdue list")
	}

	// the reminder sweep marks it once
	if err := remindOverdue(srv); err != nil {
		t.Fatal(err)
	}
	if a := getAssignmentView(t, rst, infId, cmpId); !a.Assignment.Reminded {
		t.Fatal("sweep should flag the assignment as reminded")
	}

	// completing clears it from the overdue view
	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/submitDeliverables/" + infId + "/" + cmpId, Data: M{"deliverables": []M{
			{"platform": "twitter", "url": "https://t.co/z", "description": "made it"},
		}}, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/markComplete/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "GET", Path: "/assignment/" + infId + "/" + cmpId, Data: nil, ExpectedStatus: 200, ExpectedData: M{"overdue": false}},
	} {
		tr.Run(t, rst)
	}
}

func TestMintedApiKey(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	var minted struct {
		Id     string `json:"id"`
		ApiKey string `json:"apiKey"`
	}
	if r := rst.DoTesting(t, "POST", "/apiKey", M{"note": "campaign service"}, &minted); r.Status != 200 {
		t.Fatal("failed to mint a key", r.Status)
	}
	if minted.Id == "" || minted.ApiKey == "" {
		t.Fatal("minted key incomplete", minted)
	}
	if minted.Id == cfg.AdminApiKeyId {
		t.Fatal("minted key must not clobber the bootstrap key")
	}

	// the fresh credential authenticates on its own
	req, err := http.NewRequest("GET", ts.URL+"/api/v1/assignments/whoever", nil)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set(auth.ApiKeyHeader, minted.ApiKey)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatal("minted key rejected:", resp.StatusCode)
	}
}

func TestAssignmentListing(t *testing.T) {
	rst := getClient()
	defer putClient(rst)

	infId := "inf-listing"
	first := createCampaign(t, rst, M{"name": "One", "postCount": 1, "platforms": []string{"twitter"}})
	second := createCampaign(t, rst, M{"name": "Two", "postCount": 1, "platforms": []string{"twitter"}})

	for _, tr := range [...]*resty.TestRequest{
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + first, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
		{Method: "POST", Path: "/assignCampaign/" + infId + "/" + second, Data: nil, ExpectedStatus: 200, ExpectedData: nil},
	} {
		tr.Run(t, rst)
	}

	var list []*decoratedAssignment
	rst.DoTesting(t, "GET", "/assignments/"+infId, nil, &list)
	if len(list) != 2 {
		t.Fatal("expected both assignments, got", len(list))
	}
	for _, a := range list {
		if a.InfluencerId != infId || a.DueDate == "" {
			t.Fatal("listing entries must carry due date decoration")
		}
	}
}
