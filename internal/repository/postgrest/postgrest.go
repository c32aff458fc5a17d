// Package postgrest implements the repositories on top of a hosted
// PostgREST endpoint.
package postgrest

import (
	"context"
	"net/url"
)

// RowStore is the subset of the PostgREST client the repositories need.
type RowStore interface {
	Select(ctx context.Context, table string, query url.Values, out any) error
	Upsert(ctx context.Context, table string, row any, out any) error
}

func eq(value string) string {
	return "eq." + value
}
