package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/insyd/inventory-api/internal/adapters/jsonfile"
	"github.com/insyd/inventory-api/internal/core/domain"
)

// seedItem describes one catalog entry along with its synthetic history.
// ageDays controls CreatedAt, soldQty the lifetime sales counter, and
// lastSoldDaysAgo the most recent sale (negative means never sold).
type seedItem struct {
	name            string
	sku             string
	category        string
	quantity        int
	unitPrice       string
	reorderPoint    int
	supplier        string
	location        string
	soldQty         int
	ageDays         int
	lastSoldDaysAgo int
}

// catalog covers every default category and deliberately mixes fast
// movers, slow movers, and items old enough to trip the dead stock rules.
var catalog = []seedItem{
	{"OPC Cement 50kg", "CEM-OPC-50", "Cement", 240, "350.00", 40, "Ultra Traders", "Yard 1", 820, 400, 2},
	{"PPC Cement 50kg", "CEM-PPC-50", "Cement", 180, "330.00", 40, "Ultra Traders", "Yard 1", 610, 380, 5},
	{"White Cement 25kg", "CEM-WHT-25", "Cement", 35, "540.00", 10, "Birla Agents", "Rack A2", 48, 300, 45},
	{"TMT Bar 12mm", "STL-TMT-12", "Steel", 320, "780.00", 50, "Shree Steels", "Yard 2", 1150, 420, 1},
	{"TMT Bar 8mm", "STL-TMT-08", "Steel", 260, "520.00", 50, "Shree Steels", "Yard 2", 940, 420, 3},
	{"Binding Wire 1kg", "STL-BND-01", "Steel", 90, "85.00", 20, "Shree Steels", "Rack B1", 310, 350, 7},
	{"Vitrified Tile 600x600", "TIL-VIT-66", "Tiles", 140, "95.00", 30, "Kajaria Depot", "Rack C1", 480, 280, 4},
	{"Ceramic Wall Tile 300x450", "TIL-CER-34", "Tiles", 200, "42.00", 40, "Kajaria Depot", "Rack C2", 520, 280, 6},
	{"Designer Mosaic Tile", "TIL-MOS-01", "Tiles", 60, "220.00", 10, "Import House", "Rack C3", 12, 400, 220},
	{"Exterior Emulsion 20L", "PNT-EXT-20", "Paint", 45, "2850.00", 10, "Asian Paints Hub", "Rack D1", 130, 320, 9},
	{"Interior Emulsion 10L", "PNT-INT-10", "Paint", 70, "1450.00", 15, "Asian Paints Hub", "Rack D1", 210, 320, 3},
	{"Wood Primer 1L", "PNT-PRM-01", "Paint", 55, "240.00", 10, "Asian Paints Hub", "Rack D2", 8, 250, 195},
	{"CPVC Pipe 1in 3m", "PLM-CPV-10", "Plumbing", 110, "310.00", 25, "Supreme Pipes", "Rack E1", 340, 360, 5},
	{"PVC Elbow 1in", "PLM-ELB-10", "Plumbing", 400, "18.00", 80, "Supreme Pipes", "Rack E2", 980, 360, 2},
	{"Brass Gate Valve 1in", "PLM-GTV-10", "Plumbing", 25, "480.00", 5, "Supreme Pipes", "Rack E3", 0, 150, -1},
	{"Copper Wire 1.5sqmm 90m", "ELE-CUW-15", "Electrical", 85, "1620.00", 15, "Havells Point", "Rack F1", 260, 340, 4},
	{"Modular Switch 16A", "ELE-SWT-16", "Electrical", 300, "95.00", 60, "Havells Point", "Rack F2", 720, 340, 1},
	{"LED Batten 20W", "ELE-LED-20", "Electrical", 48, "420.00", 10, "Havells Point", "Rack F3", 95, 200, 12},
	{"Door Hinge 4in SS", "HRD-HNG-04", "Hardware", 500, "45.00", 100, "Godrej Dealer", "Rack G1", 1400, 380, 2},
	{"Anchor Fastener 10mm", "HRD-ANC-10", "Hardware", 800, "12.00", 150, "Godrej Dealer", "Rack G2", 2100, 380, 3},
	{"Antique Door Handle", "HRD-ADH-01", "Hardware", 18, "850.00", 5, "Import House", "Rack G3", 0, 120, -1},
}

func main() {
	var (
		dataFile = flag.String("data", "./data/inventory.json", "Path to the inventory data file")
		force    = flag.Bool("force", false, "Seed even if the data file already has items")
		dryRun   = flag.Bool("dry-run", false, "Preview without writing the data file")
		logLevel = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	now := time.Now()
	items, txs := buildDataset(now)

	if *dryRun {
		fmt.Printf("[DRY RUN] Would seed %d items and %d transactions into %s\n",
			len(items), len(txs), *dataFile)
		return
	}

	store, err := jsonfile.NewStore(*dataFile, logger)
	if err != nil {
		logger.Error("failed to open data store", slog.String("error", err.Error()))
		os.Exit(1)
	}

	err = store.Update(context.Background(), func(data *domain.Dataset) error {
		if len(data.Items) > 0 && !*force {
			return fmt.Errorf("data file already contains %d items, use -force to seed anyway", len(data.Items))
		}
		data.Items = append(data.Items, items...)
		data.Transactions = append(data.Transactions, txs...)
		return nil
	})
	if err != nil {
		logger.Error("failed to seed data file", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seed completed",
		slog.String("file", *dataFile),
		slog.Int("items", len(items)),
		slog.Int("transactions", len(txs)))
	fmt.Printf("Seeded %d items and %d transactions into %s\n", len(items), len(txs), *dataFile)
}

// buildDataset expands the catalog into items plus a plausible movement
// history: the initial stock entry, a handful of restocks, and sales
// spread between the item's creation and its last sale date.
func buildDataset(now time.Time) ([]domain.Item, []domain.Transaction) {
	rng := rand.New(rand.NewSource(42))

	items := make([]domain.Item, 0, len(catalog))
	var txs []domain.Transaction

	for _, s := range catalog {
		createdAt := now.AddDate(0, 0, -s.ageDays)

		item := domain.Item{
			ID:           uuid.New(),
			Name:         s.name,
			SKU:          s.sku,
			Category:     s.category,
			Quantity:     s.quantity,
			UnitPrice:    decimal.RequireFromString(s.unitPrice),
			ReorderPoint: s.reorderPoint,
			Supplier:     s.supplier,
			Location:     s.location,
			QuantitySold: s.soldQty,
			CreatedAt:    createdAt,
			UpdatedAt:    createdAt,
		}

		initialQty := s.quantity + s.soldQty
		txs = append(txs, domain.NewTransaction(item.ID, domain.TransactionAdd, initialQty, "Initial stock", createdAt))

		if s.soldQty > 0 && s.lastSoldDaysAgo >= 0 {
			lastSold := now.AddDate(0, 0, -s.lastSoldDaysAgo)
			item.LastSoldDate = &lastSold
			item.UpdatedAt = lastSold

			txs = append(txs, salesHistory(rng, item.ID, s.soldQty, createdAt, lastSold)...)
		}

		items = append(items, item)
	}

	return items, txs
}

// salesHistory splits soldQty across up to eight sale records ending at
// lastSold. The split is random but the quantities always sum to soldQty.
func salesHistory(rng *rand.Rand, itemID uuid.UUID, soldQty int, createdAt, lastSold time.Time) []domain.Transaction {
	count := 1 + rng.Intn(8)
	if count > soldQty {
		count = soldQty
	}

	span := lastSold.Sub(createdAt)
	remaining := soldQty

	txs := make([]domain.Transaction, 0, count)
	for i := 0; i < count; i++ {
		qty := remaining / (count - i)
		if i < count-1 && qty > 1 {
			qty = 1 + rng.Intn(qty)
		}
		remaining -= qty

		// Space the sales evenly with the final one landing on lastSold
		at := lastSold.Add(-span * time.Duration(count-1-i) / time.Duration(count))
		txs = append(txs, domain.NewTransaction(itemID, domain.TransactionSale, qty, "", at))
	}

	return txs
}
