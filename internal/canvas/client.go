// Package canvas is a minimal Canvas LMS client, just enough to list the
// students of a course for roster exports.
package canvas

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/monperrus/ladok3/internal/config"
	"github.com/monperrus/ladok3/internal/logger"
)

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
	log         zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	scheme := "https"
	if !cfg.Canvas.UseSSL {
		scheme = "http"
	}
	return &Client{
		baseURL:     scheme + "://" + cfg.Canvas.Host + "/api/v1",
		accessToken: cfg.Canvas.AccessToken,
		httpClient:  &http.Client{Timeout: cfg.Canvas.Timeout},
		log:         logger.With("canvas"),
	}
}

type Course struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code"`
}

type User struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	SISUserID     string `json:"sis_user_id"`
	IntegrationID string `json:"integration_id"`
}

type Enrollment struct {
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
	User   User   `json:"user"`
}

// CourseInfo fetches one course by id.
func (c *Client) CourseInfo(ctx context.Context, courseID int64) (*Course, error) {
	body, _, err := c.get(ctx, fmt.Sprintf("%s/courses/%d", c.baseURL, courseID))
	if err != nil {
		return nil, err
	}
	var course Course
	if err := json.Unmarshal(body, &course); err != nil {
		return nil, fmt.Errorf("failed to decode course: %w", err)
	}
	return &course, nil
}

// UsersInCourse lists all enrollments of one type in a course, following
// Canvas's Link-header pagination to the end.
func (c *Client) UsersInCourse(ctx context.Context, courseID int64, enrollmentType string) ([]Enrollment, error) {
	url := fmt.Sprintf("%s/courses/%d/enrollments?type[]=%s&per_page=100&state[]=active",
		c.baseURL, courseID, enrollmentType)

	var all []Enrollment
	for url != "" {
		body, next, err := c.get(ctx, url)
		if err != nil {
			return nil, err
		}

		var page []Enrollment
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to decode enrollments: %w", err)
		}
		all = append(all, page...)
		url = next
	}

	c.log.Debug().Int64("course_id", courseID).Int("count", len(all)).Msg("Listed course enrollments")
	return all, nil
}

var nextLinkRe = regexp.MustCompile(`<([^>]+)>;\s*rel="next"`)

// get performs one authenticated GET and returns the body and the next-page
// URL from the Link header, if any.
func (c *Client) get(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("canvas returned status %d: %s", resp.StatusCode, string(body))
	}

	next := ""
	if m := nextLinkRe.FindStringSubmatch(resp.Header.Get("Link")); m != nil {
		next = m[1]
	}
	return body, next, nil
}

// LadokUID extracts the Ladok student UID Canvas stores as the integration
// id. Some accounts carry a numeric placeholder instead; those have no Ladok
// identity.
func (u User) LadokUID() (string, bool) {
	if u.IntegrationID == "" {
		return "", false
	}
	if _, err := strconv.Atoi(u.IntegrationID); err == nil {
		return "", false
	}
	return u.IntegrationID, true
}
