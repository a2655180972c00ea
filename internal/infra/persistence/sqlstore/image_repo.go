/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-05-12 14:50:55
 * @LastEditTime: 2026-06-22 06:06:32
 * @LastEditors: memorymap
 */

// Package sqlstore implements the repository contracts on database/sql.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/memorymap/memorymap-app/internal/infra/persistence/database"
	"github.com/memorymap/memorymap-app/pkg/constant"
	"github.com/memorymap/memorymap-app/pkg/domain/model"
	"github.com/memorymap/memorymap-app/pkg/domain/repository"
)

const imageColumns = `id, image_name, image_url, original_file_name, date_time, location,
	latitude, longitude, file_size, file_type, created_at, image_uploaded_at`

type imageRepo struct {
	db      *sql.DB
	dialect string
}

// NewImageRepo returns an ImageRepository for the given dialect.
func NewImageRepo(db *sql.DB, dialect string) repository.ImageRepository {
	return &imageRepo{db: db, dialect: dialect}
}

func (r *imageRepo) Create(ctx context.Context, record *model.ImageRecord) error {
	query := `INSERT INTO image_info (image_name, image_url, original_file_name, date_time, location,
		latitude, longitude, file_size, file_type, created_at, image_uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := []interface{}{
		record.ImageName, record.ImageURL, record.OriginalFileName,
		nullable(record.DateTime), nullable(record.Location),
		nullable(record.Latitude), nullable(record.Longitude),
		record.FileSize, record.FileType,
		r.timeArg(record.CreatedAt), r.timeArg(record.ImageUploadedAt),
	}

	switch r.dialect {
	case database.DialectMySQL:
		res, err := r.db.ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("%w: insert image_info: %v", constant.ErrPersistence, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("%w: read insert id: %v", constant.ErrPersistence, err)
		}
		record.ID = id
	default:
		if err := r.db.QueryRowContext(ctx, r.rebind(query+" RETURNING id"), args...).Scan(&record.ID); err != nil {
			return fmt.Errorf("%w: insert image_info: %v", constant.ErrPersistence, err)
		}
	}
	return nil
}

func (r *imageRepo) FindAll(ctx context.Context) ([]*model.ImageRecord, error) {
	query := `SELECT ` + imageColumns + ` FROM image_info
		ORDER BY CASE WHEN date_time IS NULL THEN 1 ELSE 0 END, date_time DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: select image_info: %v", constant.ErrPersistence, err)
	}
	defer rows.Close()

	records := make([]*model.ImageRecord, 0)
	for rows.Next() {
		rec, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan image_info: %v", constant.ErrPersistence, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate image_info: %v", constant.ErrPersistence, err)
	}
	return records, nil
}

func (r *imageRepo) FindByID(ctx context.Context, id int64) (*model.ImageRecord, error) {
	row := r.db.QueryRowContext(ctx, r.rebind(`SELECT `+imageColumns+` FROM image_info WHERE id = ?`), id)
	rec, err := scanImage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constant.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: select image_info %d: %v", constant.ErrPersistence, id, err)
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanImage(s scanner) (*model.ImageRecord, error) {
	var (
		rec                          model.ImageRecord
		dateTime, location, lat, lon sql.NullString
		createdAt, uploadedAt        sql.NullString
	)
	if err := s.Scan(&rec.ID, &rec.ImageName, &rec.ImageURL, &rec.OriginalFileName,
		&dateTime, &location, &lat, &lon, &rec.FileSize, &rec.FileType,
		&createdAt, &uploadedAt); err != nil {
		return nil, err
	}
	rec.DateTime = fromNull(dateTime)
	rec.Location = fromNull(location)
	rec.Latitude = fromNull(lat)
	rec.Longitude = fromNull(lon)
	rec.CreatedAt = parseTime(createdAt.String)
	rec.ImageUploadedAt = parseTime(uploadedAt.String)
	return &rec, nil
}

// rebind rewrites ? placeholders to $n for postgres.
func (r *imageRepo) rebind(query string) string {
	if r.dialect != database.DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, ch := range query {
		if ch == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(ch)
	}
	return b.String()
}

// timeArg stores UTC RFC3339 text on sqlite, where there is no native time type.
func (r *imageRepo) timeArg(t time.Time) interface{} {
	if t.IsZero() {
		t = time.Now()
	}
	if r.dialect == database.DialectSQLite {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseTime(s string) time.Time {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullable(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
