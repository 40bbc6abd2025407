package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"BetPool/internal/observability"
	"BetPool/internal/pool"
	"BetPool/internal/server"
	"BetPool/internal/store"
	"BetPool/internal/testutil"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	svc := pool.NewService(
		store.NewFileMatchStore(filepath.Join(dir, "matches.json")),
		store.NewFileResultsStore(filepath.Join(dir, "results.csv")),
		testutil.SampleRoster(t),
		nil, nil, zerolog.Nop(),
	)
	health := observability.NewHealthChecker()
	health.SetReady(true)

	ts := httptest.NewServer(server.New(svc, health, nil, zerolog.Nop()).Router())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

const submitBody = `{
	"team1": "SRH",
	"team2": "MI",
	"winner": "SRH",
	"team1_bettors": ["Shravan", "Jagjit"],
	"team2_bettors": ["Harman"]
}`

func TestSubmitMatch_Created(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/matches", submitBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var body struct {
		Match struct {
			ID     string `json:"id"`
			Winner string `json:"winner"`
		} `json:"match"`
		Records []json.RawMessage `json:"records"`
	}
	decodeBody(t, resp, &body)

	if body.Match.ID == "" {
		t.Error("response match has no id")
	}
	if body.Match.Winner != "SRH" {
		t.Errorf("winner = %q, want SRH", body.Match.Winner)
	}
	if len(body.Records) != 17 {
		t.Errorf("records = %d, want one per roster member", len(body.Records))
	}
}

func TestSubmitMatch_BadRequest(t *testing.T) {
	ts := newTestServer(t)

	cases := []struct {
		name string
		body string
	}{
		{"invalid winner", `{"team1": "SRH", "team2": "MI", "winner": "CSK"}`},
		{"missing team", `{"team1": "SRH", "winner": "SRH"}`},
		{"malformed json", `{broken`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/v1/matches", tc.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}

func TestGetMatch(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/matches", submitBody)
	var created struct {
		Match struct {
			ID string `json:"id"`
		} `json:"match"`
	}
	decodeBody(t, resp, &created)

	getResp, err := http.Get(ts.URL + "/v1/matches/" + created.Match.ID)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer getResp.Body.Close()
	if getResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", getResp.StatusCode)
	}

	missing, err := http.Get(ts.URL + "/v1/matches/no-such-id")
	if err != nil {
		t.Fatalf("GET missing: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", missing.StatusCode)
	}
}

func TestUpdateMatch(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/matches", submitBody)
	var created struct {
		Match struct {
			ID string `json:"id"`
		} `json:"match"`
	}
	decodeBody(t, resp, &created)

	update := `{"team1": "SRH", "team2": "MI", "winner": "MI"}`
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/matches/"+created.Match.ID, bytes.NewReader([]byte(update)))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	putResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	defer putResp.Body.Close()
	if putResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", putResp.StatusCode)
	}

	var updated struct {
		Match struct {
			Winner string `json:"winner"`
		} `json:"match"`
	}
	decodeBody(t, putResp, &updated)
	if updated.Match.Winner != "MI" {
		t.Errorf("winner = %q, want MI", updated.Match.Winner)
	}
}

func TestUpdateMatch_NotFound(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/matches/ghost",
		strings.NewReader(`{"team1": "SRH", "team2": "MI", "winner": "MI"}`))
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("PUT: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestDeleteMatch(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/matches", submitBody)
	var created struct {
		Match struct {
			ID string `json:"id"`
		} `json:"match"`
	}
	decodeBody(t, resp, &created)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/v1/matches/"+created.Match.ID, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	delResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE: %v", err)
	}
	delResp.Body.Close()
	if delResp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", delResp.StatusCode)
	}

	// History and results are both empty again.
	listResp, err := http.Get(ts.URL + "/v1/matches")
	if err != nil {
		t.Fatalf("GET matches: %v", err)
	}
	var list struct {
		Matches []json.RawMessage `json:"matches"`
	}
	decodeBody(t, listResp, &list)
	if len(list.Matches) != 0 {
		t.Errorf("matches = %d after delete, want 0", len(list.Matches))
	}

	resResp, err := http.Get(ts.URL + "/v1/results")
	if err != nil {
		t.Fatalf("GET results: %v", err)
	}
	var results struct {
		Records []json.RawMessage `json:"records"`
	}
	decodeBody(t, resResp, &results)
	if len(results.Records) != 0 {
		t.Errorf("records = %d after delete, want 0", len(results.Records))
	}
}

func TestRebuildAndReads(t *testing.T) {
	ts := newTestServer(t)

	resp := postJSON(t, ts.URL+"/v1/matches", submitBody)
	resp.Body.Close()

	rb := postJSON(t, ts.URL+"/v1/rebuild", "")
	rb.Body.Close()
	if rb.StatusCode != http.StatusOK {
		t.Fatalf("rebuild status = %d, want 200", rb.StatusCode)
	}

	resResp, err := http.Get(ts.URL + "/v1/results")
	if err != nil {
		t.Fatalf("GET results: %v", err)
	}
	var results struct {
		Records []json.RawMessage `json:"records"`
	}
	decodeBody(t, resResp, &results)
	if len(results.Records) != 17 {
		t.Errorf("records = %d after rebuild, want 17", len(results.Records))
	}

	stResp, err := http.Get(ts.URL + "/v1/standings")
	if err != nil {
		t.Fatalf("GET standings: %v", err)
	}
	var standings struct {
		Standings []struct {
			Name string `json:"name"`
			Bets int    `json:"bets"`
		} `json:"standings"`
	}
	decodeBody(t, stResp, &standings)
	if len(standings.Standings) != 17 {
		t.Errorf("standings = %d rows, want 17", len(standings.Standings))
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	live, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET healthz: %v", err)
	}
	live.Body.Close()
	if live.StatusCode != http.StatusOK {
		t.Errorf("healthz status = %d, want 200", live.StatusCode)
	}

	ready, err := http.Get(ts.URL + "/readyz")
	if err != nil {
		t.Fatalf("GET readyz: %v", err)
	}
	ready.Body.Close()
	if ready.StatusCode != http.StatusOK {
		t.Errorf("readyz status = %d, want 200", ready.StatusCode)
	}
}
