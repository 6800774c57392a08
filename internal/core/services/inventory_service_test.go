// internal/core/services/inventory_service_test.go
package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	redis_a "github.com/insyd/inventory-api/internal/adapters/redis_adapter"
	"github.com/insyd/inventory-api/internal/core/domain"
	"github.com/insyd/inventory-api/internal/core/ports"
	"github.com/insyd/inventory-api/internal/core/services"
	"github.com/insyd/inventory-api/test/helpers"
	"github.com/insyd/inventory-api/test/mocks"
)

var serviceNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// memStore wires a MockItemStore to an in-memory dataset so Update
// callbacks run against real state.
func memStore(ctrl *gomock.Controller, data *domain.Dataset) *mocks.MockItemStore {
	store := mocks.NewMockItemStore(ctrl)
	store.EXPECT().
		Load(gomock.Any()).
		DoAndReturn(func(ctx context.Context) (*domain.Dataset, error) {
			return data, nil
		}).
		AnyTimes()
	store.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(*domain.Dataset) error) error {
			return fn(data)
		}).
		AnyTimes()
	return store
}

func newService(store ports.ItemStore) *services.InventoryService {
	svc := services.NewInventoryService(store, nil, nil, domain.MetricRevenue, time.Minute, helpers.TestLogger())
	return svc.WithClock(func() time.Time { return serviceNow })
}

func TestInventoryService_CreateItem(t *testing.T) {
	tests := []struct {
		name          string
		item          *domain.Item
		expectedError bool
		errorContains string
		validate      func(*testing.T, *domain.Item, *domain.Dataset)
	}{
		{
			name: "creates_item_with_initial_stock_transaction",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Quantity = 50
			}),
			validate: func(t *testing.T, created *domain.Item, data *domain.Dataset) {
				require.Len(t, data.Transactions, 1)
				tx := data.Transactions[0]
				assert.Equal(t, domain.TransactionAdd, tx.Type)
				assert.Equal(t, 50, tx.Quantity)
				assert.Equal(t, "Initial stock", tx.Notes)
				assert.Equal(t, created.ID, tx.ItemID)
			},
		},
		{
			name: "zero_quantity_creates_no_transaction",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Quantity = 0
			}),
			validate: func(t *testing.T, created *domain.Item, data *domain.Dataset) {
				assert.Empty(t, data.Transactions)
			},
		},
		{
			name: "resets_sales_counters",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.QuantitySold = 40
				past := serviceNow.AddDate(0, -1, 0)
				i.LastSoldDate = &past
			}),
			validate: func(t *testing.T, created *domain.Item, data *domain.Dataset) {
				assert.Equal(t, 0, created.QuantitySold)
				assert.Nil(t, created.LastSoldDate)
			},
		},
		{
			name: "applies_default_reorder_point",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.ReorderPoint = 0
			}),
			validate: func(t *testing.T, created *domain.Item, data *domain.Dataset) {
				assert.Equal(t, domain.DefaultSettings().DefaultReorderPoint, created.ReorderPoint)
			},
		},
		{
			name: "validation_fails_for_missing_name",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.Name = ""
			}),
			expectedError: true,
			errorContains: "name is required",
		},
		{
			name: "validation_fails_for_negative_unit_price",
			item: helpers.CreateTestItem(func(i *domain.Item) {
				i.UnitPrice = decimal.NewFromFloat(-10.00)
			}),
			expectedError: true,
			errorContains: "unitPrice cannot be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			data := domain.NewDataset()
			service := newService(memStore(ctrl, data))

			created, err := service.CreateItem(context.Background(), tt.item)

			if tt.expectedError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, created.ID)
			assert.Equal(t, serviceNow, created.UpdatedAt)
			if tt.validate != nil {
				tt.validate(t, created, data)
			}
		})
	}
}

func TestInventoryService_CreateItem_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockItemStore(ctrl)
	store.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		Return(errors.New("disk full"))

	service := newService(store)

	_, err := service.CreateItem(context.Background(), helpers.CreateTestItem())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestInventoryService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 5
		i.UnitPrice = decimal.NewFromInt(100)
	})
	data := helpers.CreateTestDataset(*item)
	service := newService(memStore(ctrl, data))

	t.Run("returns_item_with_derived_fields", func(t *testing.T) {
		got, err := service.GetByID(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Equal(t, item.SKU, got.SKU)
		assert.True(t, got.TotalValue.Equal(decimal.NewFromInt(500)),
			"expected on-hand value 500, got %s", got.TotalValue)
		assert.NotEmpty(t, got.ValueClass)
	})

	t.Run("unknown_id_returns_not_found", func(t *testing.T) {
		_, err := service.GetByID(context.Background(), uuid.New())
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestInventoryService_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	items := []domain.Item{
		*helpers.CreateTestItem(func(i *domain.Item) {
			i.Name = "OPC Cement"
			i.SKU = "CEM-001"
			i.Category = "Cement"
		}),
		*helpers.CreateTestItem(func(i *domain.Item) {
			i.Name = "TMT Steel Bar"
			i.SKU = "STL-001"
			i.Category = "Steel"
		}),
		*helpers.CreateTestItem(func(i *domain.Item) {
			i.Name = "Ceramic Tile"
			i.SKU = "TIL-001"
			i.Category = "Tiles"
		}),
	}
	data := helpers.CreateTestDataset(items...)
	service := newService(memStore(ctrl, data))

	tests := []struct {
		name         string
		params       ports.ListParams
		expectedSKUs []string
	}{
		{
			name:         "no_filters_returns_everything",
			params:       ports.ListParams{},
			expectedSKUs: []string{"CEM-001", "STL-001", "TIL-001"},
		},
		{
			name:         "filters_by_category",
			params:       ports.ListParams{Category: "Steel"},
			expectedSKUs: []string{"STL-001"},
		},
		{
			name:         "search_matches_name_case_insensitive",
			params:       ports.ListParams{Search: "cement"},
			expectedSKUs: []string{"CEM-001"},
		},
		{
			name:         "search_matches_sku",
			params:       ports.ListParams{Search: "til-001"},
			expectedSKUs: []string{"TIL-001"},
		},
		{
			name:         "no_match_returns_empty",
			params:       ports.ListParams{Search: "granite"},
			expectedSKUs: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := service.List(context.Background(), tt.params)
			require.NoError(t, err)
			assert.Equal(t, len(tt.expectedSKUs), result.Total)

			skus := make([]string, 0, len(result.Items))
			for _, item := range result.Items {
				skus = append(skus, item.SKU)
			}
			assert.ElementsMatch(t, tt.expectedSKUs, skus)
			assert.Equal(t, domain.DefaultSettings().Categories, result.Settings.Categories)
		})
	}
}

func TestInventoryService_UpdateItem(t *testing.T) {
	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }

	tests := []struct {
		name          string
		startQuantity int
		update        ports.ItemUpdate
		expectedError bool
		validate      func(*testing.T, *domain.Item, *domain.Dataset)
	}{
		{
			name:          "quantity_increase_records_restock",
			startQuantity: 10,
			update:        ports.ItemUpdate{Quantity: intPtr(25), Notes: "supplier delivery"},
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, 25, updated.Quantity)
				assert.Equal(t, 0, updated.QuantitySold)
				require.Len(t, data.Transactions, 1)
				tx := data.Transactions[0]
				assert.Equal(t, domain.TransactionRestock, tx.Type)
				assert.Equal(t, 15, tx.Quantity)
				assert.Equal(t, "supplier delivery", tx.Notes)
			},
		},
		{
			name:          "quantity_decrease_records_sale_and_advances_counters",
			startQuantity: 10,
			update:        ports.ItemUpdate{Quantity: intPtr(4)},
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, 4, updated.Quantity)
				assert.Equal(t, 6, updated.QuantitySold)
				require.NotNil(t, updated.LastSoldDate)
				assert.Equal(t, serviceNow, *updated.LastSoldDate)
				require.Len(t, data.Transactions, 1)
				assert.Equal(t, domain.TransactionSale, data.Transactions[0].Type)
				assert.Equal(t, 6, data.Transactions[0].Quantity)
			},
		},
		{
			name:          "unchanged_quantity_records_no_transaction",
			startQuantity: 10,
			update:        ports.ItemUpdate{Quantity: intPtr(10), Name: strPtr("Renamed")},
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, "Renamed", updated.Name)
				assert.Empty(t, data.Transactions)
			},
		},
		{
			name:          "metadata_only_update",
			startQuantity: 10,
			update: ports.ItemUpdate{
				Supplier: strPtr("New Supplier"),
				Location: strPtr("Rack B2"),
			},
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, "New Supplier", updated.Supplier)
				assert.Equal(t, "Rack B2", updated.Location)
				assert.Empty(t, data.Transactions)
			},
		},
		{
			name:          "negative_quantity_rejected",
			startQuantity: 10,
			update:        ports.ItemUpdate{Quantity: intPtr(-5)},
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			item := helpers.CreateTestItem(func(i *domain.Item) {
				i.Quantity = tt.startQuantity
			})
			data := helpers.CreateTestDataset(*item)
			service := newService(memStore(ctrl, data))

			updated, err := service.UpdateItem(context.Background(), item.ID, tt.update)

			if tt.expectedError {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, updated, data)
			}
		})
	}
}

func TestInventoryService_UpdateItem_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newService(memStore(ctrl, domain.NewDataset()))

	_, err := service.UpdateItem(context.Background(), uuid.New(), ports.ItemUpdate{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestInventoryService_RecordSale(t *testing.T) {
	tests := []struct {
		name          string
		startQuantity int
		saleQuantity  int
		expectedError error
		validate      func(*testing.T, *domain.Item, *domain.Dataset)
	}{
		{
			name:          "successful_sale",
			startQuantity: 10,
			saleQuantity:  3,
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, 7, updated.Quantity)
				assert.Equal(t, 3, updated.QuantitySold)
				require.NotNil(t, updated.LastSoldDate)
				require.Len(t, data.Transactions, 1)
				assert.Equal(t, domain.TransactionSale, data.Transactions[0].Type)
				assert.Equal(t, 3, data.Transactions[0].Quantity)
			},
		},
		{
			name:          "sale_of_entire_stock",
			startQuantity: 5,
			saleQuantity:  5,
			validate: func(t *testing.T, updated *domain.Item, data *domain.Dataset) {
				assert.Equal(t, 0, updated.Quantity)
				assert.Equal(t, 5, updated.QuantitySold)
			},
		},
		{
			name:          "oversell_fails_with_insufficient_stock",
			startQuantity: 2,
			saleQuantity:  3,
			expectedError: domain.ErrInsufficientStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			item := helpers.CreateTestItem(func(i *domain.Item) {
				i.Quantity = tt.startQuantity
			})
			data := helpers.CreateTestDataset(*item)
			service := newService(memStore(ctrl, data))

			updated, err := service.RecordSale(context.Background(), item.ID, tt.saleQuantity, "walk-in sale")

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.expectedError)
				// Stock is untouched on failure
				assert.Equal(t, tt.startQuantity, data.Items[0].Quantity)
				return
			}

			require.NoError(t, err)
			tt.validate(t, updated, data)
		})
	}
}

func TestInventoryService_RecordSale_InvalidQuantity(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := newService(mocks.NewMockItemStore(ctrl))

	_, err := service.RecordSale(context.Background(), uuid.New(), 0, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be positive")
}

func TestInventoryService_DeleteItem(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	item := helpers.CreateTestItem()
	data := helpers.CreateTestDataset(*item)
	data.Transactions = append(data.Transactions,
		domain.NewTransaction(item.ID, domain.TransactionAdd, 100, "Initial stock", serviceNow))

	service := newService(memStore(ctrl, data))

	t.Run("removes_item_but_keeps_transactions", func(t *testing.T) {
		err := service.DeleteItem(context.Background(), item.ID)
		require.NoError(t, err)
		assert.Empty(t, data.Items)
		assert.Len(t, data.Transactions, 1, "audit log must survive item deletion")
	})

	t.Run("deleting_again_returns_not_found", func(t *testing.T) {
		err := service.DeleteItem(context.Background(), item.ID)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestInventoryService_ListTransactions(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	item := helpers.CreateTestItem()
	data := helpers.CreateTestDataset(*item)
	for i := 0; i < 3; i++ {
		data.Transactions = append(data.Transactions,
			domain.NewTransaction(item.ID, domain.TransactionRestock, i+1, "",
				serviceNow.Add(time.Duration(i)*time.Hour)))
	}

	service := newService(memStore(ctrl, data))

	transactions, err := service.ListTransactions(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 3)
	// Most recent first
	assert.Equal(t, 3, transactions[0].Quantity)
	assert.Equal(t, 1, transactions[2].Quantity)
}

func TestInventoryService_Analytics_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	item := helpers.CreateTestItem(func(i *domain.Item) {
		i.Quantity = 5
		i.UnitPrice = decimal.NewFromInt(200)
	})
	data := helpers.CreateTestDataset(*item)
	service := newService(memStore(ctrl, data))

	summary, err := service.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalItems)
	assert.True(t, summary.TotalValue.Equal(decimal.NewFromInt(1000)),
		"expected total value 1000, got %s", summary.TotalValue)
}

func TestInventoryService_Analytics_UsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := memStore(ctrl, domain.NewDataset())
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().
		GetOrSet(gomock.Any(), "analytics:summary:revenue", gomock.Any(), gomock.Any(), time.Minute).
		DoAndReturn(func(ctx context.Context, key string, dest interface{},
			fetch func() (interface{}, error), ttl time.Duration) error {
			result, err := fetch()
			if err != nil {
				return err
			}
			*dest.(*domain.Analytics) = *result.(*domain.Analytics)
			return nil
		})

	service := services.NewInventoryService(store, cache, nil, domain.MetricRevenue, time.Minute, helpers.TestLogger())

	summary, err := service.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalItems)
}

func TestInventoryService_MutationInvalidatesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := memStore(ctrl, domain.NewDataset())
	cache := mocks.NewMockCacheRepository(ctrl)
	cache.EXPECT().DeletePattern(gomock.Any(), "analytics:*").Return(nil)
	cache.EXPECT().DeletePattern(gomock.Any(), "inv:*").Return(nil)
	// Cached export payloads must not outlive a write
	cache.EXPECT().DeletePattern(gomock.Any(), "export:*").Return(nil)

	service := services.NewInventoryService(store, cache, nil, domain.MetricRevenue, time.Minute, helpers.TestLogger())

	_, err := service.CreateItem(context.Background(), helpers.CreateTestItem())
	require.NoError(t, err)
}

func TestInventoryService_ExportCacheFreshAfterMutation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	testRedis := helpers.SetupTestRedis(t)
	cache := redis_a.NewCache(testRedis.Client, time.Hour, helpers.TestLogger())
	store := memStore(ctrl, domain.NewDataset())

	service := services.NewInventoryService(store, cache, nil, domain.MetricRevenue, time.Minute, helpers.TestLogger())
	ctx := context.Background()

	_, err := service.CreateItem(ctx, helpers.CreateTestItem())
	require.NoError(t, err)

	// Simulate a cached export payload from before the next write
	exportKey := redis_a.BuildKey(redis_a.PrefixExport, "json", "cat__q_")
	require.NoError(t, cache.SetWithTTL(ctx, exportKey, []byte(`{"stale":true}`), 5*time.Minute))

	_, err = service.CreateItem(ctx, helpers.CreateTestItem(func(i *domain.Item) {
		i.SKU = "CEM-PPC-50"
	}))
	require.NoError(t, err)

	var cached []byte
	err = cache.Get(ctx, exportKey, &cached)
	assert.ErrorIs(t, err, redis_a.ErrCacheMiss)
}
