package cli

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/config"
	"github.com/Sanjeetkumar61/FormBuilder/internal/db"
	"github.com/Sanjeetkumar61/FormBuilder/internal/handler"
	"github.com/Sanjeetkumar61/FormBuilder/internal/repository"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
	"github.com/Sanjeetkumar61/FormBuilder/internal/storage"
)

type stores struct {
	forms     service.FormStore
	responses service.ResponseStore
	admins    service.AdminStore
	pinger    handler.Pinger
	close     func()
}

func openStores(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*stores, error) {
	if cfg.Store == config.StoreMemory {
		logger.Warn("using in-memory store; data is lost on exit")
		return &stores{
			forms:     repository.NewMemoryFormRepo(),
			responses: repository.NewMemoryResponseRepo(),
			admins:    repository.NewMemoryAdminRepo(),
			close:     func() {},
		}, nil
	}

	pool, err := db.NewPool(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.PoolSize)
	if err != nil {
		return nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	logger.Info("connected to MongoDB",
		zap.String("database", cfg.MongoDatabase), zap.Int("pool_size", cfg.PoolSize))
	return &stores{
		forms:     repository.NewFormRepo(pool),
		responses: repository.NewResponseRepo(pool),
		admins:    repository.NewAdminRepo(pool),
		pinger:    pool,
		close: func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := pool.Close(ctx); err != nil {
				logger.Warn("MongoDB disconnect failed", zap.Error(err))
			}
		},
	}, nil
}

// ensureIndexes builds the collection indexes on a dedicated connection so slow index
// builds never hold connections the request handlers need.
func ensureIndexes(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	logger.Info("background init: starting")
	pool, err := db.NewPool(ctx, cfg.MongoURI, cfg.MongoDatabase, 1)
	if err != nil {
		logger.Warn("background init: connect failed", zap.Error(err))
		return
	}
	defer pool.Close(context.Background())

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"admin", repository.NewAdminRepo(pool).EnsureIndexes},
		{"form", repository.NewFormRepo(pool).EnsureIndexes},
		{"response", repository.NewResponseRepo(pool).EnsureIndexes},
	}
	for _, s := range steps {
		start := time.Now()
		if err := s.run(ctx); err != nil {
			logger.Warn("background init: index creation failed", zap.String("collection", s.name), zap.Error(err))
			continue
		}
		logger.Info("background init: indexes ready",
			zap.String("collection", s.name), zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	}
	logger.Info("background init: all done")
}

func openFileStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.FileStore, error) {
	if cfg.UploadDriver == config.UploadMinIO {
		fs, err := storage.NewMinIO(ctx, storage.MinIOConfig{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("uploads stored in MinIO",
			zap.String("endpoint", cfg.MinIO.Endpoint), zap.String("bucket", cfg.MinIO.Bucket))
		return fs, nil
	}
	fs, err := storage.NewLocal(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	logger.Info("uploads stored on disk", zap.String("dir", cfg.UploadDir))
	return fs, nil
}
