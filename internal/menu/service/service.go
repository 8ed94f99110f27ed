// Package menu manages the per-organization menu: items, categories,
// availability and structured option groups.
package menu

import (
	"context"
	"errors"
	"fmt"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
)

// ErrInvalid marks menu validation failures so handlers can answer 400.
var ErrInvalid = errors.New("invalid menu item")

type MenuDBLayer interface {
	ListMenu(ctx context.Context, orgID string) ([]models.MenuItem, error)
	GetItem(ctx context.Context, orgID string, id int64) (*models.MenuItem, error)
	CreateItem(ctx context.Context, item *models.MenuItem) error
	UpdateItem(ctx context.Context, item models.MenuItem) error
	DeleteItem(ctx context.Context, orgID string, id int64) error
	SetAvailability(ctx context.Context, orgID string, id int64, available bool) error
}

type MenuService struct {
	DB     MenuDBLayer
	Logger *logger.Logger
}

func NewMenuService(db MenuDBLayer, log *logger.Logger) *MenuService {
	return &MenuService{DB: db, Logger: log}
}

func (s *MenuService) ListMenu(ctx context.Context, orgID string) ([]models.MenuItem, error) {
	return s.DB.ListMenu(ctx, orgID)
}

// AvailableMenu returns only the items a customer can order right now.
func (s *MenuService) AvailableMenu(ctx context.Context, orgID string) ([]models.MenuItem, error) {
	items, err := s.DB.ListMenu(ctx, orgID)
	if err != nil {
		return nil, err
	}
	available := make([]models.MenuItem, 0, len(items))
	for _, it := range items {
		if it.IsAvailable {
			available = append(available, it)
		}
	}
	return available, nil
}

func (s *MenuService) GetItem(ctx context.Context, orgID string, id int64) (*models.MenuItem, error) {
	return s.DB.GetItem(ctx, orgID, id)
}

func (s *MenuService) CreateItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if err := s.DB.CreateItem(ctx, item); err != nil {
		return err
	}
	s.Logger.LogDatabase("INSERT", "menus", fmt.Sprintf("Menu item %d (%s) created", item.ID, item.Name))
	return nil
}

func (s *MenuService) UpdateItem(ctx context.Context, item models.MenuItem) error {
	if err := validateItem(&item); err != nil {
		return err
	}
	if err := s.DB.UpdateItem(ctx, item); err != nil {
		return err
	}
	s.Logger.LogDatabase("UPDATE", "menus", fmt.Sprintf("Menu item %d updated", item.ID))
	return nil
}

func (s *MenuService) DeleteItem(ctx context.Context, orgID string, id int64) error {
	return s.DB.DeleteItem(ctx, orgID, id)
}

func (s *MenuService) SetAvailability(ctx context.Context, orgID string, id int64, available bool) error {
	if err := s.DB.SetAvailability(ctx, orgID, id, available); err != nil {
		return err
	}
	s.Logger.LogDatabase("UPDATE", "menus", fmt.Sprintf("Menu item %d availability set to %t", id, available))
	return nil
}

func validateItem(item *models.MenuItem) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalid)
	}
	for _, group := range item.Options {
		if group.Name == "" {
			return fmt.Errorf("%w: option group needs a name", ErrInvalid)
		}
		if len(group.Options) == 0 {
			return fmt.Errorf("%w: option group %q has no options", ErrInvalid, group.Name)
		}
		// max_select of 0 means no limit.
		if group.MaxSelect < 0 {
			return fmt.Errorf("%w: option group %q has negative max_select", ErrInvalid, group.Name)
		}
		if group.MaxSelect > len(group.Options) {
			return fmt.Errorf("%w: option group %q max_select exceeds its option count", ErrInvalid, group.Name)
		}
	}
	return nil
}
