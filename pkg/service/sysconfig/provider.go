package sysconfig

import (
	"context"

	domain "github.com/kokifi/lottery/pkg/domain/sysconfig"
)

// Provider hands out the current settings. *Service is the production
// implementation.
type Provider interface {
	Settings(ctx context.Context) (domain.Settings, error)
}

// Static always returns the same settings.
type Static domain.Settings

func (s Static) Settings(context.Context) (domain.Settings, error) {
	return domain.Settings(s), nil
}

var _ Provider = (*Service)(nil)
