package services

import (
	"database/sql"
	"errors"
	"fmt"

	"devicecover/internal/domain"
	"devicecover/internal/repos"
)

type CatalogService struct {
	Cats    *repos.CategoryRepo
	Devices *repos.DeviceRepo
}

func NewCatalogService(cats *repos.CategoryRepo, devices *repos.DeviceRepo) *CatalogService {
	return &CatalogService{Cats: cats, Devices: devices}
}

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListDevicesByCategory(catID string, page, pageSize int) ([]domain.Device, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Devices.ListByCategory(catID, pageSize, offset)
}

// GetDevice returns an active catalog device or ErrDeviceNotFound.
func (s *CatalogService) GetDevice(id string) (domain.Device, error) {
	d, err := s.Devices.Get(id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !d.Active) {
		return domain.Device{}, ErrDeviceNotFound
	}
	if err != nil {
		return domain.Device{}, fmt.Errorf("load device %s: %w", id, err)
	}
	return d, nil
}

func (s *CatalogService) Search(q, category string, page, pageSize int) ([]domain.Device, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 12
	}
	offset := (page - 1) * pageSize
	return s.Devices.Search(q, category, pageSize, offset)
}

// SaveDevice creates or replaces a catalog entry. The category must exist.
func (s *CatalogService) SaveDevice(d domain.Device) error {
	ok, err := s.Cats.Exists(d.CategoryID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidInput, d.CategoryID)
	}
	if d.MarketPrice <= 0 {
		return fmt.Errorf("%w: market price must be positive", ErrInvalidInput)
	}
	return s.Devices.Upsert(d)
}
