// internal/adapters/jsonfile/store.go
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
)

// Store persists the full inventory dataset as a single JSON file. All
// writes go through a single mutex so concurrent read-modify-write
// cycles cannot lose updates, and each save writes to a temp file that
// is renamed over the data file so readers never observe a partial
// write.
type Store struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// Statically assert that *Store implements the ItemStore interface.
var _ ports.ItemStore = (*Store)(nil)

// NewStore creates a store for the given data file path, creating the
// file with default settings if it does not exist yet.
func NewStore(path string, logger *slog.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		logger: logger.With(slog.String("component", "jsonfile_store")),
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(domain.NewDataset()); err != nil {
			return nil, fmt.Errorf("initialize data file: %w", err)
		}
		s.logger.Info("initialized data file", slog.String("path", path))
	} else if err != nil {
		return nil, fmt.Errorf("stat data file: %w", err)
	}

	return s, nil
}

// Load returns a snapshot of the full dataset.
func (s *Store) Load(ctx context.Context) (*domain.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Save replaces the full dataset.
func (s *Store) Save(ctx context.Context, data *domain.Dataset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(data)
}

// Update applies fn to the current dataset under the write lock and
// persists the result. A failing fn leaves the file untouched.
func (s *Store) Update(ctx context.Context, fn func(*domain.Dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

// Ping verifies the data file is readable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := os.Stat(s.path); err != nil {
		return fmt.Errorf("data file not accessible: %w", err)
	}
	return nil
}

func (s *Store) read() (*domain.Dataset, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read data file: %w", err)
	}

	var stored storedDataset
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("parse data file: %w", err)
	}

	return stored.toDomain(), nil
}

func (s *Store) write(data *domain.Dataset) error {
	raw, err := json.MarshalIndent(toStored(data), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dataset: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".inventory-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace data file: %w", err)
	}

	return nil
}

// storedItem is the on-disk shape of an item. Derived fields
// (totalValue, valueClass, isDeadStock) are deliberately absent: they
// are recomputed from the current item set on every read and must not
// survive as stored state.
type storedItem struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Category     string          `json:"category"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	ReorderPoint int             `json:"reorderPoint"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
	QuantitySold int             `json:"quantitySold"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	LastSoldDate *time.Time      `json:"lastSoldDate,omitempty"`
}

type storedDataset struct {
	Items        []storedItem         `json:"items"`
	Transactions []domain.Transaction `json:"transactions"`
	Settings     domain.Settings      `json:"settings"`
}

func toStored(d *domain.Dataset) storedDataset {
	items := make([]storedItem, 0, len(d.Items))
	for i := range d.Items {
		it := &d.Items[i]
		items = append(items, storedItem{
			ID:           it.ID,
			Name:         it.Name,
			SKU:          it.SKU,
			Category:     it.Category,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			ReorderPoint: it.ReorderPoint,
			Supplier:     it.Supplier,
			Location:     it.Location,
			QuantitySold: it.QuantitySold,
			CreatedAt:    it.CreatedAt,
			UpdatedAt:    it.UpdatedAt,
			LastSoldDate: it.LastSoldDate,
		})
	}
	return storedDataset{
		Items:        items,
		Transactions: d.Transactions,
		Settings:     d.Settings,
	}
}

func (sd *storedDataset) toDomain() *domain.Dataset {
	items := make([]domain.Item, 0, len(sd.Items))
	for i := range sd.Items {
		it := &sd.Items[i]
		items = append(items, domain.Item{
			ID:           it.ID,
			Name:         it.Name,
			SKU:          it.SKU,
			Category:     it.Category,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			ReorderPoint: it.ReorderPoint,
			Supplier:     it.Supplier,
			Location:     it.Location,
			QuantitySold: it.QuantitySold,
			CreatedAt:    it.CreatedAt,
			UpdatedAt:    it.UpdatedAt,
			LastSoldDate: it.LastSoldDate,
		})
	}

	data := &domain.Dataset{
		Items:        items,
		Transactions: sd.Transactions,
		Settings:     sd.Settings,
	}
	if data.Transactions == nil {
		data.Transactions = []domain.Transaction{}
	}
	if len(data.Settings.Categories) == 0 {
		data.Settings = domain.DefaultSettings()
	}
	return data
}
