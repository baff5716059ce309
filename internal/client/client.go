// Package client provides an HTTP client for the campsite-finder REST API.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/evcraddock/campsite-finder/internal/campsite"
	"github.com/evcraddock/campsite-finder/internal/comment"
	"github.com/evcraddock/campsite-finder/internal/form"
)

// Client is an HTTP client for the campsite-finder API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ValidationError is returned when the server rejects a comment draft.
type ValidationError struct {
	Fields map[form.Field]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	var parts []string
	for _, f := range form.Fields {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ListOptions controls filtering for ListCampsites.
type ListOptions struct {
	FeaturedOnly bool
}

// ListCampsites returns the campsite directory.
func (c *Client) ListCampsites(opts ListOptions) ([]*campsite.Campsite, error) {
	path := "/api/campsites"
	if opts.FeaturedOnly {
		path += "?featured=true"
	}

	var campsites []*campsite.Campsite
	if err := c.get(path, &campsites); err != nil {
		return nil, err
	}
	return campsites, nil
}

// GetCampsite returns a campsite with its comments.
func (c *Client) GetCampsite(id int64) (*campsite.Campsite, error) {
	var cs campsite.Campsite
	if err := c.get(fmt.Sprintf("/api/campsites/%d", id), &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

// ListComments returns comments for a campsite.
func (c *Client) ListComments(id int64) ([]*comment.Comment, error) {
	var comments []*comment.Comment
	if err := c.get(fmt.Sprintf("/api/campsites/%d/comments", id), &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment posts a comment to a campsite.
func (c *Client) AddComment(id int64, rating int, author, text string) (*comment.Comment, error) {
	body := map[string]interface{}{
		"rating": rating,
		"author": author,
		"text":   text,
	}
	var comm comment.Comment
	if err := c.post(fmt.Sprintf("/api/campsites/%d/comments", id), body, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// AppendComment implements form.Appender against the remote API.
func (c *Client) AppendComment(cmd form.AppendComment) error {
	_, err := c.AddComment(cmd.CampsiteID, cmd.Rating, cmd.Author, cmd.Text)
	return err
}

// get performs a GET request and decodes the response.
func (c *Client) get(path string, result interface{}) error {
	req, err := http.NewRequest("GET", c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	return c.do(req, result)
}

// post performs a POST request with a JSON body and decodes the response.
func (c *Client) post(path string, body interface{}, result interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, result)
}

// do executes an HTTP request and handles errors.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error  string                `json:"error"`
			Fields map[form.Field]string `json:"fields"`
		}
		if json.Unmarshal(respBody, &errResp) == nil {
			if resp.StatusCode == http.StatusUnprocessableEntity && errResp.Fields != nil {
				return &ValidationError{Fields: errResp.Fields}
			}
			if errResp.Error != "" {
				return fmt.Errorf("%s", errResp.Error)
			}
		}
		return fmt.Errorf("server error: %s", http.StatusText(resp.StatusCode))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
