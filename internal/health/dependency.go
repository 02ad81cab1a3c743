package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// probeFunc adapts a plain probe callback to the Checker interface.
type probeFunc struct {
	name  string
	probe func(context.Context) error
}

func (p probeFunc) Check(ctx context.Context) CheckResult {
	res := CheckResult{Name: p.name, Healthy: true}
	if err := p.probe(ctx); err != nil {
		res.Healthy = false
		res.Error = err.Error()
	}
	return res
}

func NewDBChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return probeFunc{name: "db", probe: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func NewRedisChecker(client redis.UniversalClient) Checker {
	if client == nil {
		return nil
	}
	return probeFunc{name: "redis", probe: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// NewStorageChecker wraps the object store's own probe, typically a
// bucket existence check.
func NewStorageChecker(probe func(context.Context) error) Checker {
	if probe == nil {
		return nil
	}
	return probeFunc{name: "storage", probe: probe}
}
