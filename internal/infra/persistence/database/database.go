/*
 * @Description: SQL 데이터베이스 연결
 * @Author: memorymap
 * @Date: 2026-03-17 18:07:40
 * @LastEditTime: 2026-06-09 16:58:18
 * @LastEditors: memorymap
 */

// Package database opens the SQL connection pool and the optional Redis client.
package database

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/memorymap/memorymap-app/pkg/config"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Supported dialects.
const (
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite"
)

// Dialect normalizes Database.Type. Empty means sqlite.
func Dialect(cfg *config.Config) (string, error) {
	switch t := cfg.GetString(config.KeyDBType); t {
	case "", "sqlite", "sqlite3":
		return DialectSQLite, nil
	case "mysql", "mariadb":
		return DialectMySQL, nil
	case "postgres", "postgresql":
		return DialectPostgres, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s (mysql/mariadb, postgres, sqlite)", t)
	}
}

// NewSQLDB builds the DSN for the configured dialect and returns a verified *sql.DB pool.
func NewSQLDB(cfg *config.Config) (*sql.DB, error) {
	dialect, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	dbUser := cfg.GetString(config.KeyDBUser)
	dbPass := cfg.GetString(config.KeyDBPassword)
	dbHost := cfg.GetString(config.KeyDBHost)
	dbPort := cfg.GetString(config.KeyDBPort)
	dbName := cfg.GetString(config.KeyDBName)

	var driverName, dsn string
	switch dialect {
	case DialectMySQL:
		driverName = "mysql"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("incomplete MySQL settings (User, Host, Port, Name required)")
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			dbUser, dbPass, dbHost, dbPort, dbName)
	case DialectPostgres:
		driverName = "postgres"
		if dbUser == "" || dbHost == "" || dbPort == "" || dbName == "" {
			return nil, fmt.Errorf("incomplete PostgreSQL settings (User, Host, Port, Name required)")
		}
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			dbHost, dbPort, dbUser, dbPass, dbName)
	case DialectSQLite:
		driverName = "sqlite3"
		dataDir := "./data"
		if err := os.MkdirAll(dataDir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		if dbName == "" {
			dbName = "memorymap.db"
		}
		finalPath := filepath.Join(dataDir, dbName)
		log.Printf("[Database] SQLite file: %s", finalPath)
		dsn = fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", finalPath)
	}

	db, err := OpenSQLDB(driverName, dsn)
	if err != nil {
		return nil, err
	}
	log.Printf("✅ %s connection pool ready.", dialect)
	return db, nil
}

// OpenSQLDB opens and pings a pool for an explicit driver and DSN.
func OpenSQLDB(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open sql.DB (driver %s): %w", driverName, err)
	}

	db.SetMaxIdleConns(10)
	db.SetMaxOpenConns(100)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database (driver %s): %w", driverName, err)
	}
	return db, nil
}
