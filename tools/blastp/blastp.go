// Package blastp runs protein similarity searches against the NCBI BLAST
// URL API: submit, poll until the search is ready, fetch the XML report.
package blastp

import (
	"bufio"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"protein_predictor_go/config"
	common "protein_predictor_go/utils"
)

var (
	// ErrNoRID means the submission response carried no request ID.
	ErrNoRID = errors.New("BLAST response has no request ID (RID)")
	// ErrSearchFailed means the server reported a status other than
	// WAITING or READY.
	ErrSearchFailed = errors.New("BLAST search failed")
)

// Hit is one high-scoring pair from the report.
type Hit struct {
	ID    string
	Score float64
}

func (h Hit) String() string { return fmt.Sprintf("(%s, %g)", h.ID, h.Score) }

// Searcher finds sequences similar to a protein.
type Searcher interface {
	Search(ctx context.Context, seq string) ([]Hit, error)
}

// Client talks to a BLAST URL API endpoint.
type Client struct {
	URL          string
	Database     string
	Hits         int
	PollInterval time.Duration
	HTTP         *http.Client
	Logs         common.Logs
}

// NewClient builds a client from the blast.* settings.
func NewClient(s config.Settings, logs common.Logs) *Client {
	return &Client{
		URL:          s.BlastURL,
		Database:     s.BlastDatabase,
		Hits:         s.BlastHits,
		PollInterval: s.BlastPollInterval,
		HTTP:         &http.Client{Timeout: time.Minute},
		Logs:         logs,
	}
}

// Search submits seq, waits for the result and returns up to c.Hits hits
// in report order. Cancel ctx to give up waiting.
func (c *Client) Search(ctx context.Context, seq string) ([]Hit, error) {
	if c.Logs.Info == nil {
		c.Logs = common.DiscardLogs()
	}

	rid, err := c.submit(ctx, seq)
	if err != nil {
		return nil, err
	}
	c.Logs.Info.Printf("BLAST request submitted, RID %s", rid)

	if err := c.wait(ctx, rid); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, url.Values{"CMD": {"Get"}, "RID": {rid}, "FORMAT_TYPE": {"XML"}})
	if err != nil {
		return nil, fmt.Errorf("retrieving BLAST results: %w", err)
	}
	defer body.Close()
	return ParseHits(body, c.Hits)
}

func (c *Client) submit(ctx context.Context, seq string) (string, error) {
	form := url.Values{
		"CMD":         {"Put"},
		"PROGRAM":     {"blastp"},
		"DATABASE":    {c.Database},
		"QUERY":       {seq},
		"FORMAT_TYPE": {"XML"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting BLAST query: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("submitting BLAST query: status %d", resp.StatusCode)
	}
	return extractRID(resp.Body)
}

// extractRID finds the "RID = ..." line of a submission page.
func extractRID(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "RID =") {
			continue
		}
		_, rid, _ := strings.Cut(line, "=")
		if rid = strings.TrimSpace(rid); rid != "" {
			return rid, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("reading BLAST response: %w", err)
	}
	return "", ErrNoRID
}

func (c *Client) wait(ctx context.Context, rid string) error {
	query := url.Values{"CMD": {"Get"}, "RID": {rid}, "FORMAT_OBJECT": {"SearchInfo"}}
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for BLAST results: %w", ctx.Err())
		case <-time.After(c.PollInterval):
		}

		body, err := c.get(ctx, query)
		if err != nil {
			return fmt.Errorf("checking BLAST status: %w", err)
		}
		info, err := io.ReadAll(body)
		body.Close()
		if err != nil {
			return fmt.Errorf("checking BLAST status: %w", err)
		}

		switch text := string(info); {
		case strings.Contains(text, "Status=READY"):
			c.Logs.Info.Printf("BLAST search %s completed", rid)
			return nil
		case strings.Contains(text, "Status=WAITING"):
			c.Logs.Info.Printf("waiting for BLAST search %s", rid)
		default:
			return fmt.Errorf("%w: unexpected status for RID %s", ErrSearchFailed, rid)
		}
	}
}

func (c *Client) get(ctx context.Context, query url.Values) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// blastOutput is the subset of the NCBI BLAST XML report that is read.
type blastOutput struct {
	Iterations []struct {
		Hits []struct {
			ID   string `xml:"Hit_id"`
			Hsps []struct {
				Score float64 `xml:"Hsp_score"`
			} `xml:"Hit_hsps>Hsp"`
		} `xml:"Iteration_hits>Hit"`
	} `xml:"BlastOutput_iterations>Iteration"`
}

// ParseHits reads a BLAST XML report and returns the first limit
// (hit, HSP score) pairs. A hit with several HSPs yields one pair per HSP.
func ParseHits(r io.Reader, limit int) ([]Hit, error) {
	var out blastOutput
	if err := xml.NewDecoder(r).Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing BLAST XML: %w", err)
	}
	var hits []Hit
	for _, it := range out.Iterations {
		for _, h := range it.Hits {
			for _, hsp := range h.Hsps {
				if len(hits) >= limit {
					return hits, nil
				}
				hits = append(hits, Hit{ID: h.ID, Score: hsp.Score})
			}
		}
	}
	return hits, nil
}
