package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gizmohub_back_end/internal/cache"
	"gizmohub_back_end/internal/config"
	"gizmohub_back_end/internal/search"
	"gizmohub_back_end/internal/storage"
)

// --- Global handles ---
var (
	Postgres *gorm.DB
	Redis    *redis.Client
	Elastic  *elasticsearch.Client
	MinIO    *minio.Client
)

// ConnectDatabases opens Postgres (required) and every optional backend the config enables.
func ConnectDatabases(cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := OpenPostgres(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	Postgres = db

	if Redis, err = cache.Connect(ctx, cfg.RedisHost, cfg.RedisPassword); err != nil {
		log.Printf("⚠️ Redis unavailable, continuing without it: %v", err)
		Redis = nil
	}

	if Elastic, err = search.Connect(cfg.ElasticURL, cfg.ElasticUser, cfg.ElasticPassword); err != nil {
		log.Printf("⚠️ Elasticsearch unavailable, search falls back to SQL: %v", err)
		Elastic = nil
	}

	if MinIO, err = storage.Connect(ctx, storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	}); err != nil {
		log.Printf("⚠️ MinIO unavailable, image upload disabled: %v", err)
		MinIO = nil
	}

	log.Println("✅ Databases connected")
	return nil
}

func OpenPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Println("✅ Connected to Postgres")
	return db, nil
}

// Ping reports the health of each configured backend. Disabled backends are omitted.
func Ping(ctx context.Context) map[string]string {
	status := map[string]string{}

	if Postgres != nil {
		status["postgres"] = "ok"
		if sqlDB, err := Postgres.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			status["postgres"] = "down"
		}
	}
	if Redis != nil {
		status["redis"] = "ok"
		if err := Redis.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
		}
	}
	if Elastic != nil {
		status["elasticsearch"] = "ok"
		res, err := Elastic.Ping(Elastic.Ping.WithContext(ctx))
		if err != nil || res.IsError() {
			status["elasticsearch"] = "down"
		}
		if res != nil {
			res.Body.Close()
		}
	}
	if MinIO != nil {
		status["minio"] = "ok"
		if MinIO.IsOffline() {
			status["minio"] = "down"
		}
	}
	return status
}

func Close() {
	if Postgres != nil {
		if sqlDB, err := Postgres.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if Redis != nil {
		Redis.Close()
	}
}
