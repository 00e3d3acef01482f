package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"nn-visualizer/pkg/api"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	client *resty.Client
}

func New(baseUrl string) *Client {
	return &Client{
		client: resty.New().SetBaseURL(baseUrl).SetTimeout(30 * time.Second),
	}
}

// StatusError is returned when the server responds with a non 2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d: %s", e.Code, e.Body)
}

func (c *Client) get(ctx context.Context, endpoint string, query map[string]string, out any) error {
	res, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(query).
		Get(endpoint)
	if err != nil {
		return fmt.Errorf("error calling %s: %w", endpoint, err)
	}

	if !res.IsSuccess() {
		return &StatusError{Code: res.StatusCode(), Body: res.String()}
	}

	if err := json.Unmarshal(res.Body(), out); err != nil {
		return fmt.Errorf("error parsing response from %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) GetActivations(ctx context.Context, input string) (api.ActivationsResponse, error) {
	var res api.ActivationsResponse
	err := c.get(ctx, "/get_activations", map[string]string{"input": input}, &res)
	return res, err
}

func (c *Client) GetModel(ctx context.Context) (api.ModelInfo, error) {
	var res api.ModelInfo
	err := c.get(ctx, "/model", nil, &res)
	return res, err
}

func (c *Client) Health(ctx context.Context) error {
	var res struct{}
	return c.get(ctx, "/health", nil, &res)
}
