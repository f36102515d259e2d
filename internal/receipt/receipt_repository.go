package receipt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/buntdb"
)

const (
	receiptKeyPrefix = "receipt:"
	lastIDKey        = "receipts:last_id"
)

type ReceiptRepository interface {
	// AddReceipt validates a decoded receipt payload, stores it and returns its ID
	AddReceipt(data map[string]any) (string, error)
	// GetReceipt returns the stored receipt and true, or false when id is unknown
	GetReceipt(id string) (Receipt, bool, error)
}

// BuntDBReceiptRepository stores receipts as JSON records in buntdb. IDs are
// decimal strings assigned from a counter that starts at 1 and is persisted
// alongside the receipts, so IDs are never reused.
type BuntDBReceiptRepository struct {
	mu     sync.Mutex
	db     *buntdb.DB
	lastID uint64
	log    logrus.FieldLogger
}

type receiptRecord struct {
	ID           string       `json:"id"`
	Retailer     string       `json:"retailer"`
	PurchaseDate string       `json:"purchaseDate"`
	PurchaseTime string       `json:"purchaseTime"`
	Total        string       `json:"total"`
	Items        []itemRecord `json:"items"`
}

type itemRecord struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// NewBuntDBReceiptRepository wraps an open database, resuming the ID counter
// if the database already holds receipts.
func NewBuntDBReceiptRepository(db *buntdb.DB, log logrus.FieldLogger) (*BuntDBReceiptRepository, error) {
	repo := &BuntDBReceiptRepository{db: db, log: log}

	err := db.View(func(tx *buntdb.Tx) error {
		value, err := tx.Get(lastIDKey)
		if errors.Is(err, buntdb.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		repo.lastID, err = strconv.ParseUint(value, 10, 64)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("read receipt counter: %w", err)
	}
	return repo, nil
}

// AddReceipt - validates data into a Receipt and stores it under the next ID.
// Validation errors (*MissingFieldError, *ParseError) are returned unchanged
// and do not consume an ID.
func (repo *BuntDBReceiptRepository) AddReceipt(data map[string]any) (string, error) {
	receipt, err := NewReceipt(data)
	if err != nil {
		return "", err
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	next := repo.lastID + 1
	id := strconv.FormatUint(next, 10)

	receiptMarshal, err := json.Marshal(toRecord(id, receipt))
	if err != nil {
		return "", err
	}

	// receipt and counter are written in one transaction
	err = repo.db.Update(func(tx *buntdb.Tx) error {
		if _, _, err := tx.Set(receiptKeyPrefix+id, string(receiptMarshal), nil); err != nil {
			return err
		}
		_, _, err := tx.Set(lastIDKey, id, nil)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("store receipt %s: %w", id, err)
	}
	repo.lastID = next

	repo.log.WithFields(logrus.Fields{"id": id, "retailer": receipt.retailer}).Debug("receipt stored")
	return id, nil
}

// GetReceipt - looks up a receipt by ID. An unknown ID is not an error.
func (repo *BuntDBReceiptRepository) GetReceipt(id string) (Receipt, bool, error) {
	var stringValue string

	err := repo.db.View(func(tx *buntdb.Tx) error {
		var err error
		stringValue, err = tx.Get(receiptKeyPrefix + id)
		return err
	})
	if errors.Is(err, buntdb.ErrNotFound) {
		return Receipt{}, false, nil
	}
	if err != nil {
		return Receipt{}, false, err
	}

	var record receiptRecord
	if err := json.Unmarshal([]byte(stringValue), &record); err != nil {
		return Receipt{}, false, fmt.Errorf("decode receipt %s: %w", id, err)
	}
	receipt, err := fromRecord(record)
	if err != nil {
		return Receipt{}, false, fmt.Errorf("decode receipt %s: %w", id, err)
	}
	return receipt, true, nil
}

// Close releases the underlying database. Lookups after Close fail with
// buntdb.ErrDatabaseClosed.
func (repo *BuntDBReceiptRepository) Close() error {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return repo.db.Close()
}

// Len returns the number of receipts stored so far.
func (repo *BuntDBReceiptRepository) Len() int {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return int(repo.lastID)
}

func toRecord(id string, r Receipt) receiptRecord {
	items := make([]itemRecord, 0, len(r.items))
	for _, item := range r.items {
		items = append(items, itemRecord{ShortDescription: item.shortDescription, Price: item.price.String()})
	}
	return receiptRecord{
		ID:           id,
		Retailer:     r.retailer,
		PurchaseDate: r.purchaseDate.String(),
		PurchaseTime: r.purchaseTime.String(),
		Total:        r.total.String(),
		Items:        items,
	}
}

func fromRecord(record receiptRecord) (Receipt, error) {
	date, err := parseDate(FieldReceiptDate, record.PurchaseDate)
	if err != nil {
		return Receipt{}, err
	}
	clock, err := parseClock(FieldReceiptTime, record.PurchaseTime)
	if err != nil {
		return Receipt{}, err
	}
	total, err := parseAmount(FieldReceiptTotal, record.Total)
	if err != nil {
		return Receipt{}, err
	}
	items := make([]Item, 0, len(record.Items))
	for _, ir := range record.Items {
		price, err := parsePrice(ir.Price)
		if err != nil {
			return Receipt{}, err
		}
		items = append(items, Item{shortDescription: ir.ShortDescription, price: price})
	}
	return Receipt{
		retailer:     record.Retailer,
		purchaseDate: date,
		purchaseTime: clock,
		total:        total,
		items:        items,
	}, nil
}
