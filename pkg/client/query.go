package client

import (
	"context"

	types "github.com/turtacn/PatQuery-Bridge/pkg/types/query"
)

// QueryClient calls the /api/v1/query endpoints.
type QueryClient struct {
	client *Client
}

// Generate assembles a dialect query string and search URL from structured
// conditions.
func (q *QueryClient) Generate(ctx context.Context, req *types.GenerateRequest) (*types.GenerateResponse, error) {
	var resp types.GenerateResponse
	if err := q.client.post(ctx, "/api/v1/query/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GenerateSafe never returns an error: any failure yields the fail-closed
// response, an "Error: ..." display string with the inert '#' URL, so callers
// driving a live preview can render it directly.
func (q *QueryClient) GenerateSafe(ctx context.Context, req *types.GenerateRequest) *types.GenerateResponse {
	resp, err := q.Generate(ctx, req)
	if err != nil {
		return &types.GenerateResponse{
			QueryStringDisplay: "Error: " + err.Error(),
			URL:                types.SentinelURL,
		}
	}
	return resp
}

// Parse recovers builder state from a raw query string.
func (q *QueryClient) Parse(ctx context.Context, req *types.ParseRequest) (*types.ParseResponse, error) {
	var resp types.ParseResponse
	if err := q.client.post(ctx, "/api/v1/query/parse", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Convert translates a query string between dialects.  A lossy conversion
// succeeds with the Error field populated on the response.
func (q *QueryClient) Convert(ctx context.Context, req *types.ConvertRequest) (*types.ConvertResponse, error) {
	var resp types.ConvertResponse
	if err := q.client.post(ctx, "/api/v1/query/convert", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Detect guesses the dialect of a raw query string.
func (q *QueryClient) Detect(ctx context.Context, queryString string) (*types.DetectResponse, error) {
	var resp types.DetectResponse
	body := map[string]string{"query_string": queryString}
	if err := q.client.post(ctx, "/api/v1/query/detect", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

//Personal.AI order the ending
