package receipt

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Receipt - validated purchase record. Fields are read through accessors and
// never change after NewReceipt returns.
type Receipt struct {
	retailer     string
	purchaseDate Date
	purchaseTime Clock
	total        decimal.Decimal
	items        []Item
}

// Item - one purchased line on a receipt
type Item struct {
	shortDescription string
	price            decimal.Decimal
}

// NewItem validates a decoded JSON item object.
// Keys are checked in the order shortDescription, price.
func NewItem(data map[string]any) (Item, error) {
	desc, err := requireString(data, "shortDescription", FieldItemShortDesc)
	if err != nil {
		return Item{}, err
	}
	rawPrice, err := requireString(data, "price", FieldItemPrice)
	if err != nil {
		return Item{}, err
	}
	price, err := parsePrice(rawPrice)
	if err != nil {
		return Item{}, err
	}
	return Item{shortDescription: desc, price: price}, nil
}

// NewReceipt validates a decoded JSON receipt object. Keys are checked in the
// order retailer, purchaseDate, purchaseTime, total, items; the first missing
// one is reported. Item failures are returned unchanged.
func NewReceipt(data map[string]any) (Receipt, error) {
	retailer, err := requireString(data, "retailer", FieldRetailer)
	if err != nil {
		return Receipt{}, err
	}

	rawDate, err := requireString(data, "purchaseDate", FieldReceiptDate)
	if err != nil {
		return Receipt{}, err
	}
	date, err := parseDate(FieldReceiptDate, rawDate)
	if err != nil {
		return Receipt{}, err
	}

	rawTime, err := requireString(data, "purchaseTime", FieldReceiptTime)
	if err != nil {
		return Receipt{}, err
	}
	clock, err := parseClock(FieldReceiptTime, rawTime)
	if err != nil {
		return Receipt{}, err
	}

	rawTotal, err := requireString(data, "total", FieldReceiptTotal)
	if err != nil {
		return Receipt{}, err
	}
	total, err := parseAmount(FieldReceiptTotal, rawTotal)
	if err != nil {
		return Receipt{}, err
	}

	rawItems, ok := data["items"]
	if !ok {
		return Receipt{}, &MissingFieldError{Field: "items", Payload: data}
	}
	list, ok := rawItems.([]any)
	if !ok {
		return Receipt{}, typeError(FieldItems, rawItems, "array")
	}
	items := make([]Item, 0, len(list))
	for _, raw := range list {
		obj, ok := raw.(map[string]any)
		if !ok {
			return Receipt{}, typeError(FieldItem, raw, "object")
		}
		item, err := NewItem(obj)
		if err != nil {
			return Receipt{}, err
		}
		items = append(items, item)
	}

	return Receipt{
		retailer:     retailer,
		purchaseDate: date,
		purchaseTime: clock,
		total:        total,
		items:        items,
	}, nil
}

// ShortDescription returns the description exactly as submitted.
func (i Item) ShortDescription() string { return i.shortDescription }

func (i Item) Price() decimal.Decimal { return i.price }

// Equal reports whether both items carry the same description and price.
// Prices compare numerically, so 2.5 equals 2.50.
func (i Item) Equal(other Item) bool {
	return i.shortDescription == other.shortDescription && i.price.Equal(other.price)
}

func (r Receipt) Retailer() string { return r.retailer }

func (r Receipt) PurchaseDate() Date { return r.purchaseDate }

func (r Receipt) PurchaseTime() Clock { return r.purchaseTime }

func (r Receipt) Total() decimal.Decimal { return r.total }

// Items returns a copy of the line items in submission order.
func (r Receipt) Items() []Item {
	items := make([]Item, len(r.items))
	copy(items, r.items)
	return items
}

// Equal compares all five fields; items are compared pairwise in order.
func (r Receipt) Equal(other Receipt) bool {
	if r.retailer != other.retailer ||
		r.purchaseDate != other.purchaseDate ||
		r.purchaseTime != other.purchaseTime ||
		!r.total.Equal(other.total) ||
		len(r.items) != len(other.items) {
		return false
	}
	for i := range r.items {
		if !r.items[i].Equal(other.items[i]) {
			return false
		}
	}
	return true
}

func requireString(data map[string]any, key, field string) (string, error) {
	raw, ok := data[key]
	if !ok {
		return "", &MissingFieldError{Field: key, Payload: data}
	}
	s, ok := raw.(string)
	if !ok {
		return "", typeError(field, raw, "string")
	}
	return s, nil
}

func typeError(field string, raw any, want string) error {
	return &ParseError{
		Field: field,
		Value: fmt.Sprintf("%v", raw),
		Err:   fmt.Errorf("expected JSON %s, got %T", want, raw),
	}
}
