package supabase

import (
	"context"
	"net/http"
	"net/url"
)

// Select reads rows from a PostgREST table into out, which must be a
// pointer to a slice. query carries PostgREST filters such as
// "username=eq.ada" and "order=name".
func (c *Client) Select(ctx context.Context, table string, query url.Values, out any) error {
	q := url.Values{}
	for k, v := range query {
		q[k] = v
	}
	if q.Get("select") == "" {
		q.Set("select", "*")
	}

	req, err := c.newRequest(ctx, http.MethodGet, "/rest/v1/"+url.PathEscape(table), q, nil, c.bearer(ctx))
	if err != nil {
		return err
	}
	return c.do(ctx, "rest", req, out)
}

// Upsert inserts row or, on primary-key conflict, overwrites it. The
// stored representation is decoded into out when out is non-nil.
func (c *Client) Upsert(ctx context.Context, table string, row any, out any) error {
	req, err := c.newRequest(ctx, http.MethodPost, "/rest/v1/"+url.PathEscape(table), nil, row, c.bearer(ctx))
	if err != nil {
		return err
	}
	prefer := "resolution=merge-duplicates,return=minimal"
	if out != nil {
		prefer = "resolution=merge-duplicates,return=representation"
	}
	req.Header.Set("Prefer", prefer)
	return c.do(ctx, "rest", req, out)
}
