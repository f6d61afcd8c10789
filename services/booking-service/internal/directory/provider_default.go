//go:build !protogen

package directory

import (
	"log/slog"

	"github.com/meetdesk/irevents/libs/db"
)

// NewProvider returns the event directory used for policy checks. The addr
// argument selects the remote directory service in protogen builds; this
// build always serves from the local projection.
func NewProvider(logger *slog.Logger, pool *db.Pool, addr string) (Provider, error) {
	if addr != "" {
		logger.Warn("directory grpc addr set but binary built without protogen; using local projection", "addr", addr)
	}
	return NewPGProvider(pool), nil
}
