// Package api is the HTTP client for the Contact Keeper REST API.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"contact_keeper/internal/model"

	"github.com/go-resty/resty/v2"
)

const tokenHeader = "x-auth-token"

// Error is a non-2xx answer from the API. Msg is the first message the server sent.
type Error struct {
	Status   int
	Msg      string
	Messages []string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Msg
}

// IsUnauthorized reports whether err is a 401 from the API
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized
}

// errorBody covers both {"msg": "..."} and {"error": [{"msg": "..."}]}
type errorBody struct {
	Msg   string `json:"msg"`
	Error []struct {
		Msg string `json:"msg"`
	} `json:"error"`
}

type tokenBody struct {
	Token string `json:"token"`
}

type userBody struct {
	User model.User `json:"user"`
}

type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// New creates a client for the API rooted at baseURL
func New(baseURL string) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15*time.Second).
		SetHeader("Accept", "application/json")
	return &Client{http: r}
}

// SetToken sets the x-auth-token sent on every request; empty removes it
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorBody{})
	c.mu.RLock()
	if c.token != "" {
		req.SetHeader(tokenHeader, c.token)
	}
	c.mu.RUnlock()
	return req
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (string, error) {
	var out tokenBody
	resp, err := c.request(ctx).SetBody(req).SetResult(&out).Post("/api/users")
	if err := check(resp, err); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (string, error) {
	var out tokenBody
	resp, err := c.request(ctx).SetBody(req).SetResult(&out).Post("/api/auth")
	if err := check(resp, err); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *Client) CurrentUser(ctx context.Context) (*model.User, error) {
	var out userBody
	resp, err := c.request(ctx).SetResult(&out).Get("/api/auth")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) ListContacts(ctx context.Context) ([]model.Contact, error) {
	out := []model.Contact{}
	resp, err := c.request(ctx).SetResult(&out).Get("/api/contacts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateContact(ctx context.Context, req model.CreateContactRequest) (*model.Contact, error) {
	var out model.Contact
	resp, err := c.request(ctx).SetBody(req).SetResult(&out).Post("/api/contacts")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateContact(ctx context.Context, id string, req model.UpdateContactRequest) (*model.Contact, error) {
	var out model.Contact
	resp, err := c.request(ctx).
		SetPathParam("id", id).
		SetBody(req).
		SetResult(&out).
		Put("/api/contacts/{id}")
	if err := check(resp, err); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteContact(ctx context.Context, id string) error {
	resp, err := c.request(ctx).SetPathParam("id", id).Delete("/api/contacts/{id}")
	return check(resp, err)
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	apiErr := &Error{Status: resp.StatusCode()}
	if body, ok := resp.Error().(*errorBody); ok && body != nil {
		if body.Msg != "" {
			apiErr.Messages = append(apiErr.Messages, body.Msg)
		}
		for _, item := range body.Error {
			apiErr.Messages = append(apiErr.Messages, item.Msg)
		}
	}
	if len(apiErr.Messages) > 0 {
		apiErr.Msg = apiErr.Messages[0]
	}
	return apiErr
}
