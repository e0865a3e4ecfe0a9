package settlement

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/config"
	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
)

// UnitOfWork is the atomic scope a settlement runs in. The transactional
// implementation wraps the steps in one database transaction; the sequential
// implementation runs the same steps best effort for backing stores without
// multi-statement transactions.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type transactionalUnit struct {
	client *dbpkg.Client
}

func (u *transactionalUnit) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return u.client.WithTx(ctx, fn)
}

type sequentialUnit struct {
	db *gorm.DB
}

func (u *sequentialUnit) Run(ctx context.Context, fn func(tx *gorm.DB) error) error {
	// No transaction: each step commits as it lands. A failure partway
	// leaves earlier steps applied; callers accept that documented window.
	return fn(u.db)
}

// NewUnitOfWork selects the settlement scope at startup from configuration.
func NewUnitOfWork(cfg config.SettlementConfig, client *dbpkg.Client) (UnitOfWork, error) {
	if client == nil {
		return nil, fmt.Errorf("db client required")
	}
	if cfg.Transactional {
		return &transactionalUnit{client: client}, nil
	}
	return &sequentialUnit{db: client.DB()}, nil
}
