package store

import (
	"context"

	"github.com/serroba/shortref/internal/shortener"
	"go.uber.org/zap"
)

// Noop logs accesses and keeps nothing.
type Noop struct {
	logger *zap.Logger
}

func NewNoop(logger *zap.Logger) *Noop {
	return &Noop{logger: logger}
}

func (n *Noop) Record(_ context.Context, code shortener.Code, access shortener.Access) error {
	n.logger.Info("access received",
		zap.String("code", string(code)),
		zap.Time("accessedAt", access.At),
		zap.String("referrer", access.Referrer),
	)

	return nil
}

func (n *Noop) Accesses(_ context.Context, _ shortener.Code) ([]shortener.Access, error) {
	return []shortener.Access{}, nil
}

var _ shortener.AccessLog = (*Noop)(nil)
