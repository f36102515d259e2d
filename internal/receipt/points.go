package receipt

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

var (
	quarterCents    = decimal.NewFromInt(25)
	itemPriceFactor = decimal.RequireFromString("0.2")
)

// Points calculates reward points for a receipt as the sum of:
//
//  1. Retailer Name:
//     - +1 point for every alphanumeric character in the retailer name.
//  2. Purchase Date:
//     - +6 points if the day of the purchase date is odd.
//  3. Purchase Time:
//     - +10 points if the purchase time is after 14:00 and before 16:00.
//  4. Total Amount:
//     - +25 points if the cents of the total are a multiple of 25.
//     - +50 more points if the total is a round dollar amount.
//  5. Receipt Items:
//     - +5 points for every two items on the receipt.
//     - If the trimmed length of an item's description is a multiple of 3,
//     the item price times 0.2, rounded up.
func Points(r Receipt) int {
	return retailerPoints(r.retailer) +
		purchaseDatePoints(r.purchaseDate) +
		purchaseTimePoints(r.purchaseTime) +
		totalPoints(r.total) +
		itemPoints(r.items)
}

func retailerPoints(retailer string) int {
	points := 0
	for _, char := range retailer {
		if unicode.IsLetter(char) || unicode.IsNumber(char) {
			points++
		}
	}
	return points
}

func purchaseDatePoints(date Date) int {
	if date.Day%2 == 1 {
		return 6
	}
	return 0
}

func purchaseTimePoints(clock Clock) int {
	if isPurchaseAfterTwoBeforeFour(clock) {
		return 10
	}
	return 0
}

// isPurchaseAfterTwoBeforeFour - true from 14:01 through 15:59
func isPurchaseAfterTwoBeforeFour(clock Clock) bool {
	return (clock.Hour > 14 || (clock.Hour == 14 && clock.Minute > 0)) && clock.Hour < 16
}

func totalPoints(total decimal.Decimal) int {
	points := 0
	fraction := total.Sub(total.Floor())
	cents := fraction.Shift(2)

	// sub-cent totals such as 1.255 are not quarter multiples
	if cents.IsInteger() && cents.Mod(quarterCents).IsZero() {
		points += 25
	}
	if fraction.IsZero() {
		points += 50
	}
	return points
}

func itemPoints(items []Item) int {
	points := (len(items) / 2) * 5

	// length counts characters, not bytes
	for _, item := range items {
		if utf8.RuneCountInString(strings.TrimSpace(item.shortDescription))%3 == 0 {
			points += int(item.price.Mul(itemPriceFactor).Ceil().IntPart())
		}
	}
	return points
}
