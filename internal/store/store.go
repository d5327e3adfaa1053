// Package store keeps imported routes in a sqlite catalogue so they can be
// listed and re-measured with a different granularity later.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"gpsroute/internal/position"
	"gpsroute/internal/route"
)

var ErrNotFound = errors.New("store: route not found")

const pointBatch = 500

type RouteRecord struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"type:text;index" json:"name"`
	Description  string    `gorm:"type:text" json:"description,omitempty"`
	Source       string    `gorm:"size:16" json:"source"`
	NumPositions int       `json:"positions"`
	TotalLengthM float64   `json:"total_length_m"`
	CreatedAt    time.Time `json:"created_at"`
}

func (RouteRecord) TableName() string {
	return "routes"
}

type PointRecord struct {
	ID      uint `gorm:"primarykey"`
	RouteID uint `gorm:"index"`
	Seq     int
	Lat     float64
	Lon     float64
	Ele     float64
}

func (PointRecord) TableName() string {
	return "route_points"
}

type Store struct {
	db *gorm.DB
}

func Open(path string) (*Store, error) {
	dbLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold: time.Second,
			LogLevel:      logger.Silent,
			Colorful:      false,
		},
	)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if err := db.AutoMigrate(&RouteRecord{}, &PointRecord{}); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Save stores the raw positions of r. TotalLengthM is measured at r's own
// granularity.
func (s *Store) Save(ctx context.Context, source string, r *route.Route) (RouteRecord, error) {
	rec := RouteRecord{
		Name:         r.Name(),
		Description:  r.Description(),
		Source:       source,
		NumPositions: r.NumPositions(),
		TotalLengthM: r.TotalLength(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		pts := r.Positions()
		for start := 0; start < len(pts); start += pointBatch {
			end := start + pointBatch
			if end > len(pts) {
				end = len(pts)
			}
			batch := make([]PointRecord, 0, end-start)
			for i := start; i < end; i++ {
				batch = append(batch, PointRecord{
					RouteID: rec.ID,
					Seq:     i,
					Lat:     pts[i].Latitude(),
					Lon:     pts[i].Longitude(),
					Ele:     pts[i].Elevation(),
				})
			}
			if err := tx.Create(&batch).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return RouteRecord{}, fmt.Errorf("store: save route: %w", err)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context) ([]RouteRecord, error) {
	recs := []RouteRecord{}
	if err := s.db.WithContext(ctx).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("store: list routes: %w", err)
	}
	return recs, nil
}

func (s *Store) Get(ctx context.Context, id uint) (RouteRecord, error) {
	var rec RouteRecord
	result := s.db.WithContext(ctx).First(&rec, id)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return RouteRecord{}, ErrNotFound
	}
	if result.Error != nil {
		return RouteRecord{}, fmt.Errorf("store: get route %d: %w", id, result.Error)
	}
	return rec, nil
}

// Route rebuilds a stored route. opts are applied after the stored name and
// description.
func (s *Store) Route(ctx context.Context, id uint, opts ...route.Option) (*route.Route, error) {
	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var pts []PointRecord
	if err := s.db.WithContext(ctx).Where("route_id = ?", id).Order("seq").Find(&pts).Error; err != nil {
		return nil, fmt.Errorf("store: load points for route %d: %w", id, err)
	}
	positions := make([]position.Position, 0, len(pts))
	for _, p := range pts {
		positions = append(positions, position.New(p.Lat, p.Lon, p.Ele))
	}
	base := []route.Option{route.WithName(rec.Name), route.WithDescription(rec.Description)}
	return route.New(positions, append(base, opts...)...), nil
}

func (s *Store) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&RouteRecord{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("route_id = ?", id).Delete(&PointRecord{}).Error
	})
}
