// Package tables manages the physical tables of a venue and the printed QR
// codes that point customers at them.
package tables

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"ms-dinein/internal/logger"
	"ms-dinein/internal/models"
)

var ErrInvalid = errors.New("invalid table")

// QRSize is the pixel width of generated QR PNGs.
const QRSize = 256

type TableDBLayer interface {
	ListTables(ctx context.Context, orgID string) ([]models.Table, error)
	GetTable(ctx context.Context, orgID, tableID string) (*models.Table, error)
	CreateTable(ctx context.Context, table *models.Table) error
	UpdateTable(ctx context.Context, table models.Table) error
	DeleteTable(ctx context.Context, orgID, id string) error
}

type TableService struct {
	DB      TableDBLayer
	BaseURL string
	Logger  *logger.Logger
}

func NewTableService(db TableDBLayer, baseURL string, log *logger.Logger) *TableService {
	return &TableService{DB: db, BaseURL: baseURL, Logger: log}
}

func (s *TableService) ListTables(ctx context.Context, orgID string) ([]models.Table, error) {
	return s.DB.ListTables(ctx, orgID)
}

func (s *TableService) GetTable(ctx context.Context, orgID, tableID string) (*models.Table, error) {
	return s.DB.GetTable(ctx, orgID, tableID)
}

func (s *TableService) CreateTable(ctx context.Context, table *models.Table) error {
	if table.TableID == "" {
		return fmt.Errorf("%w: table_id is required", ErrInvalid)
	}
	if table.ID == "" {
		table.ID = uuid.New().String()
	}
	if err := s.DB.CreateTable(ctx, table); err != nil {
		return err
	}
	s.Logger.LogDatabase("INSERT", "tables", fmt.Sprintf("Table %s created", table.TableID))
	return nil
}

func (s *TableService) UpdateTable(ctx context.Context, table models.Table) error {
	if table.TableID == "" {
		return fmt.Errorf("%w: table_id is required", ErrInvalid)
	}
	return s.DB.UpdateTable(ctx, table)
}

func (s *TableService) DeleteTable(ctx context.Context, orgID, id string) error {
	return s.DB.DeleteTable(ctx, orgID, id)
}

// TableURL is the address printed into a table's QR code. Scanning it opens
// the tenant's table page.
func (s *TableService) TableURL(slug, tableID string) string {
	return fmt.Sprintf("%s/t/%s/table/%s", s.BaseURL, slug, tableID)
}

// GenerateQR renders a table's QR code as a PNG.
func (s *TableService) GenerateQR(slug, tableID string) ([]byte, error) {
	png, err := qrcode.Encode(s.TableURL(slug, tableID), qrcode.Medium, QRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR: %w", err)
	}
	return png, nil
}
