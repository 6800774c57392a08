// internal/core/domain/transaction.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of stock movement
type TransactionType string

const (
	TransactionAdd     TransactionType = "ADD"
	TransactionRestock TransactionType = "RESTOCK"
	TransactionSale    TransactionType = "SALE"
)

// Transaction is an immutable audit record of a stock movement. Quantity
// is always the positive magnitude of the change; the direction is carried
// by Type. Transactions are never updated or deleted, and deliberately
// survive deletion of the item they reference.
type Transaction struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"itemId"`
	Type      TransactionType `json:"type"`
	Quantity  int             `json:"quantity"`
	Timestamp time.Time       `json:"timestamp"`
	Notes     string          `json:"notes,omitempty"`
}

// NewTransaction creates a movement record for the given item.
func NewTransaction(itemID uuid.UUID, t TransactionType, quantity int, notes string, now time.Time) Transaction {
	return Transaction{
		ID:        uuid.New(),
		ItemID:    itemID,
		Type:      t,
		Quantity:  quantity,
		Timestamp: now,
		Notes:     notes,
	}
}

// Validate performs domain validation on the transaction
func (t *Transaction) Validate() error {
	switch t.Type {
	case TransactionAdd, TransactionRestock, TransactionSale:
	default:
		return fmt.Errorf("invalid transaction type %q", t.Type)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive")
	}
	return nil
}

// RecentTransactions returns the most recent n transactions in
// reverse-chronological order, assuming txs is in append order.
func RecentTransactions(txs []Transaction, n int) []Transaction {
	if n > len(txs) {
		n = len(txs)
	}
	recent := make([]Transaction, 0, n)
	for i := len(txs) - 1; i >= len(txs)-n; i-- {
		recent = append(recent, txs[i])
	}
	return recent
}
