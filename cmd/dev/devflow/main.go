package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"viewingdesk/pkg/config"
	"viewingdesk/pkg/session"
)

// devflow seeds mock viewing requests into a running API and walks them
// through confirm, reschedule and reject, then prints the calendar.
func main() {
	var (
		baseURL  = flag.String("base-url", "", "API base url (defaults to http://localhost<HTTP_ADDR>)")
		operator = flag.String("operator", "admin", "operator name recorded in history")
		secret   = flag.String("token-secret", "", "OPERATOR_TOKEN_SECRET used by server (falls back to X-Operator header when empty)")
	)
	flag.Parse()

	cfg := config.Load()
	if *baseURL == "" {
		*baseURL = defaultBaseURL(cfg.HTTPAddr)
	}
	if *secret == "" {
		*secret = cfg.Operator.TokenSecret
	}

	c := client{base: strings.TrimRight(*baseURL, "/"), operator: *operator, http: &http.Client{Timeout: 10 * time.Second}}
	if *secret != "" {
		tok, err := session.IssueOperatorToken(*operator, cfg.Operator.TokenAudience, *secret, time.Now(), time.Hour)
		if err != nil {
			fail("issue token: %v", err)
		}
		c.token = tok
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	seeds := []map[string]any{
		{
			"requester":   map[string]any{"name": "Li Wei", "phone": "13800000001", "userRef": "u-1001"},
			"property":    map[string]any{"id": "p-1", "name": "Sunrise Apartments 1204", "layout": "2 bed 1 bath", "address": "18 Harbour Rd", "listedRent": "3200.00"},
			"scheduledAt": day.Add(10*time.Hour + 30*time.Minute),
		},
		{
			"requester":   map[string]any{"name": "Chen Jing", "phone": "13800000002", "userRef": "u-1002"},
			"property":    map[string]any{"id": "p-2", "name": "Garden Villa 3", "layout": "3 bed 2 bath", "address": "7 Elm St", "listedRent": "5800.00"},
			"scheduledAt": day.Add(14 * time.Hour),
		},
	}

	var ids []string
	for _, s := range seeds {
		var a map[string]any
		c.do(http.MethodPost, "/v1/appointments", s, http.StatusCreated, &a)
		ids = append(ids, a["id"].(string))
		fmt.Printf("created %s (%s)\n", a["appointmentNumber"], a["id"])
	}

	c.do(http.MethodPost, "/v1/appointments/"+ids[0]+"/confirm", map[string]any{"remark": "agent available"}, http.StatusOK, nil)
	c.do(http.MethodPost, "/v1/appointments/"+ids[0]+"/reschedule", map[string]any{
		"newTime": day.AddDate(0, 0, 1).Add(9 * time.Hour),
		"remark":  "requester asked for the next morning",
	}, http.StatusOK, nil)
	c.do(http.MethodPost, "/v1/appointments/"+ids[1]+"/reject", map[string]any{"remark": "unit already let"}, http.StatusOK, nil)
	// A rejected request is terminal.
	c.do(http.MethodPost, "/v1/appointments/"+ids[1]+"/confirm", nil, http.StatusConflict, nil)

	var cal map[string]any
	c.do(http.MethodGet, "/v1/calendar", nil, http.StatusOK, &cal)
	out, _ := json.MarshalIndent(cal, "", "  ")
	fmt.Printf("\ncalendar:\n%s\n", out)

	var hist map[string]any
	c.do(http.MethodGet, "/v1/appointments/"+ids[0]+"/history", nil, http.StatusOK, &hist)
	out, _ = json.MarshalIndent(hist, "", "  ")
	fmt.Printf("\nhistory of %s:\n%s\n", ids[0], out)
}

type client struct {
	base     string
	operator string
	token    string
	http     *http.Client
}

func (c client) do(method, path string, body any, wantStatus int, out any) {
	var rdr io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		fail("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	} else {
		req.Header.Set("X-Operator", c.operator)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		fail("%s %s: %v\ntip: is the API running, and is HTTP_ADDR set correctly?", method, path, err)
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		fail("%s %s: status=%d want=%d body=%s", method, path, resp.StatusCode, wantStatus, string(b))
	}
	if out != nil {
		if err := json.Unmarshal(b, out); err != nil {
			fail("decode %s: %v", path, err)
		}
	}
}

func defaultBaseURL(httpAddr string) string {
	// httpAddr is typically ":8081" or "0.0.0.0:8081".
	addr := strings.TrimSpace(httpAddr)
	if addr == "" {
		addr = ":8081"
	}
	switch {
	case strings.HasPrefix(addr, ":"):
		return "http://localhost" + addr
	case strings.HasPrefix(addr, "0.0.0.0:"):
		return "http://localhost" + strings.TrimPrefix(addr, "0.0.0.0")
	default:
		return "http://" + addr
	}
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
