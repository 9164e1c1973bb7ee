package client

import (
	"context"
)

type Client interface {
	Close() error
	Ping(ctx context.Context) error
	PublicKey(ctx context.Context) (string, error)
	FetchExport(ctx context.Context) ([]byte, error)
}
