package receipt

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(desc, price string) Item {
	return Item{shortDescription: desc, price: decimal.RequireFromString(price)}
}

func TestRetailerPoints(t *testing.T) {
	tests := map[string]int{
		"":                     0,
		"Target":               6,
		"0987654321":           10,
		"Store123":             8,
		"!@#$%^& *()-=./":      0,
		"Warehouse [A-B/C]":    12,
		"M&M Corner Market #2": 15,
		"Café":                 4,
	}
	for name, want := range tests {
		assert.Equal(t, want, retailerPoints(name), name)
	}
}

func TestPurchaseDatePoints(t *testing.T) {
	assert.Equal(t, 6, purchaseDatePoints(Date{Year: 2000, Month: 2, Day: 1}))
	assert.Equal(t, 6, purchaseDatePoints(Date{Year: 2025, Month: 12, Day: 31}))
	assert.Equal(t, 0, purchaseDatePoints(Date{Year: 2011, Month: 3, Day: 22}))
	assert.Equal(t, 0, purchaseDatePoints(Date{Year: 2021, Month: 8, Day: 30}))
}

func TestPurchaseTimePoints(t *testing.T) {
	tests := []struct {
		clock Clock
		want  int
	}{
		{Clock{Hour: 13, Minute: 59}, 0},
		{Clock{Hour: 14, Minute: 0}, 0},
		{Clock{Hour: 14, Minute: 1}, 10},
		{Clock{Hour: 15, Minute: 23}, 10},
		{Clock{Hour: 15, Minute: 59}, 10},
		{Clock{Hour: 16, Minute: 0}, 0},
		{Clock{Hour: 16, Minute: 1}, 0},
		{Clock{Hour: 0, Minute: 0}, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, purchaseTimePoints(tt.clock), tt.clock.String())
	}
}

func TestTotalPoints(t *testing.T) {
	tests := map[string]int{
		"0.00":    75,
		"0":       75,
		"17.00":   75,
		"75.1":    0,
		"100.24":  0,
		"5.25":    25,
		"0.25":    25,
		"78.26":   0,
		"0.26":    0,
		"2.49":    0,
		"8.50":    25,
		"0.50":    25,
		"20.51":   0,
		"54.71":   0,
		"0.75":    25,
		"5420.76": 0,
		"90.99":   0,
		"1.255":   0,
		"1.250":   25,
	}
	for total, want := range tests {
		assert.Equal(t, want, totalPoints(decimal.RequireFromString(total)), total)
	}
}

func TestItemPoints(t *testing.T) {
	assert.Equal(t, 0, itemPoints(nil))

	// empty description has length 0, a multiple of 3
	assert.Equal(t, 1, itemPoints([]Item{item("", "2.50")}))
	assert.Equal(t, 1, itemPoints([]Item{item("   ", "2.50")}))

	assert.Equal(t, 0, itemPoints([]Item{item("Gatorades", "0")}))
	assert.Equal(t, 0, itemPoints([]Item{item("Pepsi", "10.00")}))

	// exact multiple stays unchanged, any remainder rounds up
	assert.Equal(t, 2, itemPoints([]Item{item("Pie", "10.00")}))
	assert.Equal(t, 3, itemPoints([]Item{item("Pie", "10.01")}))

	assert.Equal(t, 3, itemPoints([]Item{item("  Pie", "12.25")}))
	assert.Equal(t, 3, itemPoints([]Item{item("Pie   ", "12.25")}))
	assert.Equal(t, 3, itemPoints([]Item{item("  Pie   ", "12.25")}))
	assert.Equal(t, 0, itemPoints([]Item{item("  Pies   ", "12.25")}))

	assert.Equal(t, 5, itemPoints([]Item{item("Pepsi", "1.00"), item("Cola", "1.00")}))

	five := []Item{
		item("Pepsi", "1.00"), item("Cola", "1.00"), item("Water", "1.00"),
		item("Milk", "1.00"), item("Juice", "1.00"),
	}
	assert.Equal(t, 10, itemPoints(five))

	six := append(five, item("Stuffed Teddy Bear", "230.28"))
	assert.Equal(t, 15+47, itemPoints(six))
}

func TestPointsCanonicalReceipts(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]any
		want    int
	}{
		{"target", targetPayload(), 28},
		{
			"m&m corner market",
			map[string]any{
				"retailer":     "M&M Corner Market",
				"purchaseDate": "2022-03-20",
				"purchaseTime": "14:33",
				"items": []any{
					map[string]any{"shortDescription": "Gatorade", "price": "2.25"},
					map[string]any{"shortDescription": "Gatorade", "price": "2.25"},
					map[string]any{"shortDescription": "Gatorade", "price": "2.25"},
					map[string]any{"shortDescription": "Gatorade", "price": "2.25"},
				},
				"total": "9.00",
			},
			109,
		},
		{
			"long retailer name",
			map[string]any{
				"retailer":     "Jim Jr. and Rhino's Frozen Grill & Hot Lemonade v3.0",
				"purchaseDate": "2025-12-31",
				"purchaseTime": "16:00",
				"items": []any{
					map[string]any{"shortDescription": "Lemonade Extra Hot ", "price": "52.75"},
				},
				"total": "52.75",
			},
			81,
		},
		{
			"padded descriptions",
			map[string]any{
				"retailer":     "Plushie Store  ",
				"purchaseDate": "1944-10-27",
				"purchaseTime": "14:00",
				"items": []any{
					map[string]any{"shortDescription": "  Stuffed Teddy Bear     ", "price": "230.28"},
					map[string]any{"shortDescription": " Stuffed Dragon", "price": "129.00"},
					map[string]any{"shortDescription": "Stuffed Pig #12", "price": "10.24"},
					map[string]any{"shortDescription": "Stuffed Pig #249", "price": "28.23"},
					map[string]any{"shortDescription": "Cotton", "price": "57.04"},
					map[string]any{"shortDescription": "Limited Edition Red Fish", "price": "10392.46"},
				},
				"total": "10847.25",
			},
			2199,
		},
		{
			"no items",
			map[string]any{
				"retailer":     "Norm's 100% Organic Barn",
				"purchaseDate": "2021-08-30",
				"purchaseTime": "14:01",
				"items":        []any{},
				"total":        "0.00",
			},
			104,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReceipt(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Points(r))
			// scoring is pure
			assert.Equal(t, tt.want, Points(r))
		})
	}
}

func TestPointsSumsEveryRule(t *testing.T) {
	r := Receipt{
		retailer:     "7-11",
		purchaseDate: Date{Year: 2024, Month: 1, Day: 3},
		purchaseTime: Clock{Hour: 7, Minute: 20},
		total:        decimal.RequireFromString("175.00"),
		items:        []Item{item(" Lighter ", "150.00"), item("Cigarettes", "25.00")},
	}
	want := retailerPoints(r.retailer) +
		purchaseDatePoints(r.purchaseDate) +
		purchaseTimePoints(r.purchaseTime) +
		totalPoints(r.total) +
		itemPoints(r.items)
	assert.Equal(t, 89, want)
	assert.Equal(t, want, Points(r))
}
