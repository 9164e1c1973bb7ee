// Package exports builds binary user snapshots for the export endpoint and
// optionally archives them to object storage.
package exports

import (
	"context"
	"time"

	"github.com/dmitrijs2005/rosterkeeper/internal/export"
	"github.com/dmitrijs2005/rosterkeeper/internal/logging"
	"github.com/dmitrijs2005/rosterkeeper/internal/server/users"
)

// UserLister yields the records included in a snapshot. Satisfied by both
// users.Service and users.Repository.
type UserLister interface {
	List(ctx context.Context) ([]users.User, error)
}

type Service struct {
	lister   UserLister
	archiver *Archiver
	logger   logging.Logger
}

func NewService(lister UserLister, archiver *Archiver, logger logging.Logger) *Service {
	return &Service{
		lister:   lister,
		archiver: archiver,
		logger:   logger.With("module", "exports"),
	}
}

// Snapshot encodes the current user table. When an archiver is configured,
// the encoded bytes are also copied to object storage; an archive failure is
// logged and never fails the snapshot itself.
func (s *Service) Snapshot(ctx context.Context) ([]byte, error) {
	list, err := s.lister.List(ctx)
	if err != nil {
		return nil, err
	}

	data, err := export.Encode(toWire(list))
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if key, err := s.archiver.Store(ctx, data); err != nil {
			s.logger.Warn(ctx, "export archive failed", "error", err)
		} else {
			s.logger.Info(ctx, "export archived", "key", key)
		}
	}

	return data, nil
}

// toWire maps persistence records onto wire records field by field. The wire
// format never sees GORM types.
func toWire(list []users.User) []export.User {
	out := make([]export.User, 0, len(list))
	for _, u := range list {
		out = append(out, export.User{
			ID:        int64(u.ID),
			Email:     u.Email,
			Role:      u.Role,
			Status:    u.Status,
			CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
			EmailHash: u.EmailHash,
			Signature: u.Signature,
		})
	}
	return out
}
