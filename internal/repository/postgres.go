package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fadilmartias/careerhub/internal/config"
	"github.com/fadilmartias/careerhub/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectPostgres(cfg *config.DBConfig, production bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get database instance: %w", err)
	}
	if production {
		sqlDB.SetMaxIdleConns(20)
		sqlDB.SetMaxOpenConns(200)
		sqlDB.SetConnMaxLifetime(time.Hour)
	} else {
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return db, nil
}

// Migrate enables pgvector and brings the relational tables up to date.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
		return fmt.Errorf("enable pgvector: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&model.User{}, &model.Job{}, &model.CVAnalysis{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// PingPostgres is the readiness probe for the relational store.
func PingPostgres(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
