/*
 * @Description: image_info 테이블 마이그레이션
 * @Author: memorymap
 * @Date: 2026-05-15 12:15:08
 * @LastEditTime: 2026-07-31 09:34:16
 * @LastEditors: memorymap
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// MigrationService creates and upgrades the image_info schema.
type MigrationService struct {
	db      *sql.DB
	dialect string
}

func NewMigrationService(db *sql.DB, dialect string) *MigrationService {
	return &MigrationService{db: db, dialect: dialect}
}

// RunMigrations is idempotent.
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	if err := m.createImageInfo(ctx); err != nil {
		return fmt.Errorf("create image_info: %w", err)
	}
	if err := m.migrateUploadedAt(ctx); err != nil {
		return fmt.Errorf("migrate image_uploaded_at: %w", err)
	}
	if err := m.createDateIndex(ctx); err != nil {
		return fmt.Errorf("create date_time index: %w", err)
	}
	log.Println("✅ Database migrations complete")
	return nil
}

func (m *MigrationService) createImageInfo(ctx context.Context) error {
	var ddl string
	switch m.dialect {
	case DialectMySQL:
		ddl = `
			CREATE TABLE IF NOT EXISTS image_info (
				id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
				image_name VARCHAR(512) NOT NULL,
				image_url VARCHAR(2048) NOT NULL,
				original_file_name VARCHAR(512) NOT NULL,
				date_time VARCHAR(64) NULL,
				location VARCHAR(1024) NULL,
				latitude VARCHAR(32) NULL,
				longitude VARCHAR(32) NULL,
				file_size BIGINT NOT NULL DEFAULT 0,
				file_type VARCHAR(128) NOT NULL DEFAULT '',
				created_at DATETIME(6) NOT NULL,
				image_uploaded_at DATETIME(6) NOT NULL
			) DEFAULT CHARSET=utf8mb4`
	case DialectPostgres:
		ddl = `
			CREATE TABLE IF NOT EXISTS image_info (
				id BIGSERIAL PRIMARY KEY,
				image_name TEXT NOT NULL,
				image_url TEXT NOT NULL,
				original_file_name TEXT NOT NULL,
				date_time TEXT NULL,
				location TEXT NULL,
				latitude TEXT NULL,
				longitude TEXT NULL,
				file_size BIGINT NOT NULL DEFAULT 0,
				file_type TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMPTZ NOT NULL,
				image_uploaded_at TIMESTAMPTZ NOT NULL
			)`
	case DialectSQLite:
		ddl = `
			CREATE TABLE IF NOT EXISTS image_info (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				image_name TEXT NOT NULL,
				image_url TEXT NOT NULL,
				original_file_name TEXT NOT NULL,
				date_time TEXT NULL,
				location TEXT NULL,
				latitude TEXT NULL,
				longitude TEXT NULL,
				file_size INTEGER NOT NULL DEFAULT 0,
				file_type TEXT NOT NULL DEFAULT '',
				created_at TEXT NOT NULL,
				image_uploaded_at TEXT NOT NULL
			)`
	default:
		return fmt.Errorf("unsupported dialect: %s", m.dialect)
	}
	_, err := m.db.ExecContext(ctx, ddl)
	return err
}

// migrateUploadedAt adds image_uploaded_at to tables created before the column existed.
func (m *MigrationService) migrateUploadedAt(ctx context.Context) error {
	exists, err := m.columnExists(ctx, "image_info", "image_uploaded_at")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Println("  → adding image_uploaded_at column...")
	var stmt string
	switch m.dialect {
	case DialectMySQL:
		stmt = `ALTER TABLE image_info ADD COLUMN image_uploaded_at DATETIME(6) NULL`
	case DialectPostgres:
		stmt = `ALTER TABLE image_info ADD COLUMN image_uploaded_at TIMESTAMPTZ NULL`
	default:
		stmt = `ALTER TABLE image_info ADD COLUMN image_uploaded_at TEXT NULL`
	}
	if _, err := m.db.ExecContext(ctx, stmt); err != nil {
		return err
	}
	_, err = m.db.ExecContext(ctx, `UPDATE image_info SET image_uploaded_at = created_at WHERE image_uploaded_at IS NULL`)
	return err
}

func (m *MigrationService) createDateIndex(ctx context.Context) error {
	if m.dialect == DialectMySQL {
		var count int
		err := m.db.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM INFORMATION_SCHEMA.STATISTICS
			WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = 'image_info' AND INDEX_NAME = 'idx_image_info_date_time'
		`).Scan(&count)
		if err != nil || count > 0 {
			return err
		}
		_, err = m.db.ExecContext(ctx, `CREATE INDEX idx_image_info_date_time ON image_info (date_time)`)
		return err
	}
	_, err := m.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_image_info_date_time ON image_info (date_time)`)
	return err
}

func (m *MigrationService) columnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	var query string
	switch m.dialect {
	case DialectMySQL:
		query = `
			SELECT COUNT(*)
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND COLUMN_NAME = ?`
	case DialectPostgres:
		query = `
			SELECT COUNT(*)
			FROM information_schema.columns
			WHERE table_name = $1
			AND column_name = $2`
	case DialectSQLite:
		query = `
			SELECT COUNT(*)
			FROM pragma_table_info(?)
			WHERE name = ?`
	default:
		return false, fmt.Errorf("unsupported dialect: %s", m.dialect)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, tableName, columnName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
