// Package remote provides the client for the remote graph catalog
// service. The reconciliation engine talks to the catalog exclusively
// through the Client interface: named query/mutation documents with a
// variable map, request/response only, no streaming.
//
// The concrete GraphClient speaks the catalog's GraphQL-over-HTTP
// protocol, but nothing in the engine depends on the wire format beyond
// the node shapes defined in this package.
package remote

import "context"

// Client executes read and write operations against the remote graph
// catalog. Implementations must map every failure onto the stackmap error
// taxonomy: transport failures and malformed responses surface as
// RemoteUnavailable, business-rule rejections as RemoteRejected, and
// deadline expiry as Timeout.
type Client interface {
	// Query executes a read operation and decodes the response data
	// into out when out is non-nil.
	Query(ctx context.Context, operation string, vars map[string]any, out any) error

	// Mutate executes a write operation and decodes the response data
	// into out when out is non-nil.
	Mutate(ctx context.Context, operation string, vars map[string]any, out any) error
}
