package apiclient

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Client is a typed HTTP client for the Gotcha API. Every call decodes the
// standard error envelope on non-2xx responses.
type Client struct {
	http *resty.Client
}

// New creates a client for the given server. token may be empty for
// read-only anonymous use.
func New(baseURL, token string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetHeader("Content-Type", "application/json")
	if token != "" {
		http.SetAuthToken(token)
	}
	return &Client{http: http}
}

// APIError is the server's structured error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
	Status  int    `json:"-"`
}

func (e *APIError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s (%s): %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// request returns a resty request pre-wired with the error envelope
func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetError(&APIError{})
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if resp.IsSuccess() {
		return nil
	}
	if apiErr, ok := resp.Error().(*APIError); ok && apiErr.Code != "" {
		apiErr.Status = resp.StatusCode()
		return apiErr
	}
	return fmt.Errorf("unexpected status %d: %s", resp.StatusCode(), resp.String())
}

func pageParams(limit, offset int) map[string]string {
	return map[string]string{
		"limit":  strconv.Itoa(limit),
		"offset": strconv.Itoa(offset),
	}
}

// Feed fetches a page of a feed kind ("default", "recent" or "liked")
func (c *Client) Feed(ctx context.Context, kind string, limit, offset int) (*FeedPage, error) {
	var page FeedPage
	resp, err := c.request(ctx).
		SetQueryParams(pageParams(limit, offset)).
		SetQueryParam("feed", kind).
		SetResult(&page).
		Get("/api/v1/annoyances")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetAnnoyance fetches a single annoyance
func (c *Client) GetAnnoyance(ctx context.Context, id uint) (*Annoyance, error) {
	var envelope struct {
		Annoyance Annoyance `json:"annoyance"`
	}
	resp, err := c.request(ctx).
		SetResult(&envelope).
		Get(fmt.Sprintf("/api/v1/annoyances/%d", id))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Annoyance, nil
}

// CreateAnnoyance posts a new annoyance
func (c *Client) CreateAnnoyance(ctx context.Context, req CreateAnnoyanceRequest) (*Annoyance, error) {
	var envelope struct {
		Annoyance Annoyance `json:"annoyance"`
	}
	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&envelope).
		Post("/api/v1/annoyances")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Annoyance, nil
}

// UpdateAnnoyance replaces the editable fields of one of the caller's posts
func (c *Client) UpdateAnnoyance(ctx context.Context, id uint, req CreateAnnoyanceRequest) (*Annoyance, error) {
	var envelope struct {
		Annoyance Annoyance `json:"annoyance"`
	}
	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&envelope).
		Put(fmt.Sprintf("/api/v1/annoyances/%d", id))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Annoyance, nil
}

// DeleteImage removes a previously uploaded image by its public URL
func (c *Client) DeleteImage(ctx context.Context, imageURL string) error {
	resp, err := c.request(ctx).
		SetQueryParam("url", imageURL).
		Delete("/api/v1/images")
	return checkResponse(resp, err)
}

// DeleteAnnoyance deletes one of the caller's posts
func (c *Client) DeleteAnnoyance(ctx context.Context, id uint) error {
	resp, err := c.request(ctx).
		Delete(fmt.Sprintf("/api/v1/annoyances/%d", id))
	return checkResponse(resp, err)
}

// ToggleLike likes or unlikes an annoyance and returns the new state
func (c *Client) ToggleLike(ctx context.Context, id uint) (*LikeResult, error) {
	var result LikeResult
	resp, err := c.request(ctx).
		SetResult(&result).
		Post(fmt.Sprintf("/api/v1/annoyances/%d/like", id))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &result, nil
}

// Comments fetches a page of comments, oldest first
func (c *Client) Comments(ctx context.Context, id uint, limit, offset int) (*CommentPage, error) {
	var page CommentPage
	resp, err := c.request(ctx).
		SetQueryParams(pageParams(limit, offset)).
		SetResult(&page).
		Get(fmt.Sprintf("/api/v1/annoyances/%d/comments", id))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateComment adds a comment to an annoyance
func (c *Client) CreateComment(ctx context.Context, id uint, content string) (*Comment, error) {
	var envelope struct {
		Comment Comment `json:"comment"`
	}
	resp, err := c.request(ctx).
		SetBody(map[string]string{"content": content}).
		SetResult(&envelope).
		Post(fmt.Sprintf("/api/v1/annoyances/%d/comments", id))
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Comment, nil
}

// Categories lists every category
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var envelope struct {
		Categories []Category `json:"categories"`
	}
	resp, err := c.request(ctx).
		SetResult(&envelope).
		Get("/api/v1/categories")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return envelope.Categories, nil
}

// CategoryFeed fetches a page of a category's annoyances
func (c *Client) CategoryFeed(ctx context.Context, slug string, limit, offset int) (*FeedPage, error) {
	var page FeedPage
	resp, err := c.request(ctx).
		SetQueryParams(pageParams(limit, offset)).
		SetResult(&page).
		Get("/api/v1/categories/" + slug + "/annoyances")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search finds annoyances matching a query
func (c *Client) Search(ctx context.Context, query string, limit, offset int) (*FeedPage, error) {
	var page FeedPage
	resp, err := c.request(ctx).
		SetQueryParams(pageParams(limit, offset)).
		SetQueryParam("q", query).
		SetResult(&page).
		Get("/api/v1/search")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser fetches a public profile by username, with aggregate stats
func (c *Client) GetUser(ctx context.Context, username string) (*PublicProfile, *UserStats, error) {
	var envelope struct {
		User  PublicProfile `json:"user"`
		Stats UserStats     `json:"stats"`
	}
	resp, err := c.request(ctx).
		SetResult(&envelope).
		Get("/api/v1/users/" + username)
	if err := checkResponse(resp, err); err != nil {
		return nil, nil, err
	}
	return &envelope.User, &envelope.Stats, nil
}

// UserAnnoyances fetches a page of a user's posts
func (c *Client) UserAnnoyances(ctx context.Context, username string, limit, offset int) (*FeedPage, error) {
	var page FeedPage
	resp, err := c.request(ctx).
		SetQueryParams(pageParams(limit, offset)).
		SetResult(&page).
		Get("/api/v1/users/" + username + "/annoyances")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &page, nil
}

// SyncProfile creates or refreshes the caller's profile
func (c *Client) SyncProfile(ctx context.Context, username, displayName string) (*Profile, error) {
	body := map[string]string{}
	if username != "" {
		body["username"] = username
	}
	if displayName != "" {
		body["display_name"] = displayName
	}

	var envelope struct {
		Profile Profile `json:"profile"`
	}
	resp, err := c.request(ctx).
		SetBody(body).
		SetResult(&envelope).
		Post("/api/v1/profile/sync")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Profile, nil
}

// MyProfile fetches the caller's own profile
func (c *Client) MyProfile(ctx context.Context) (*Profile, error) {
	var envelope struct {
		Profile Profile `json:"profile"`
	}
	resp, err := c.request(ctx).
		SetResult(&envelope).
		Get("/api/v1/profile")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Profile, nil
}

// UpdateProfile patches the caller's profile; nil fields are left unchanged
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	var envelope struct {
		Profile Profile `json:"profile"`
	}
	resp, err := c.request(ctx).
		SetBody(req).
		SetResult(&envelope).
		Patch("/api/v1/profile")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	return &envelope.Profile, nil
}
