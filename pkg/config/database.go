package config

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB holds the storage handles. Redis is optional and nil when not configured.
type DB struct {
	Postgres *gorm.DB
	Mongo    *mongo.Client
	Redis    *redis.Client
	log      *zap.Logger
}

// InitDB opens every configured connection and verifies it with a ping
func InitDB(ctx context.Context, cfg *Config, log *zap.Logger) (*DB, error) {
	if cfg.PostgresURL == "" {
		return nil, fmt.Errorf("POSTGRES_URL environment variable not set")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI environment variable not set")
	}

	db := &DB{log: log}

	postgresDB, err := initPostgres(cfg.PostgresURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	db.Postgres = postgresDB
	log.Info("connected to PostgreSQL")

	mongoClient, err := initMongo(ctx, cfg.MongoURI)
	if err != nil {
		db.CloseDB()
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	db.Mongo = mongoClient
	log.Info("connected to MongoDB")

	if cfg.RedisAddr != "" {
		rdb, err := initRedis(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			db.CloseDB()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		db.Redis = rdb
		log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))
	}

	return db, nil
}

// initPostgres initializes the PostgreSQL database connection using GORM
func initPostgres(connStr string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(connStr), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(25)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	if err = sqlDB.Ping(); err != nil {
		return nil, err
	}
	return db, nil
}

// initMongo initializes the MongoDB connection
func initMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err = client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return client, nil
}

func initRedis(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

// CloseDB closes the database connections
func (db *DB) CloseDB() {
	if db.Postgres != nil {
		sqlDB, err := db.Postgres.DB()
		if err != nil {
			db.log.Error("getting SQL DB from GORM", zap.Error(err))
		} else if err := sqlDB.Close(); err != nil {
			db.log.Error("closing PostgreSQL connection", zap.Error(err))
		} else {
			db.log.Info("PostgreSQL connection closed")
		}
	}

	if db.Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Mongo.Disconnect(ctx); err != nil {
			db.log.Error("closing MongoDB connection", zap.Error(err))
		} else {
			db.log.Info("MongoDB connection closed")
		}
	}

	if db.Redis != nil {
		if err := db.Redis.Close(); err != nil {
			db.log.Error("closing Redis connection", zap.Error(err))
		}
	}
}
