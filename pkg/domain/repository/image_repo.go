/*
 * @Description:
 * @Author: memorymap
 * @Date: 2026-05-18 04:05:00
 * @LastEditTime: 2026-08-03 20:41:35
 * @LastEditors: memorymap
 */

// Package repository declares the persistence contracts used by the services.
package repository

import (
	"context"

	"github.com/memorymap/memorymap-app/pkg/domain/model"
)

// ImageRepository stores ImageRecord rows. Records are never updated or deleted.
type ImageRepository interface {
	// Create inserts record and fills in the database-assigned ID.
	Create(ctx context.Context, record *model.ImageRecord) error

	// FindAll returns every record ordered by date_time descending. Records without a date come last.
	FindAll(ctx context.Context) ([]*model.ImageRecord, error)

	// FindByID returns constant.ErrNotFound when no row matches.
	FindByID(ctx context.Context, id int64) (*model.ImageRecord, error)
}
