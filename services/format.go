package services

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var pricePrinter = message.NewPrinter(language.English)

// Price renders an amount in pesos with thousands separators ("₱1,250").
// Non-positive amounts render as a dash, the way unpriced items appear
// upstream.
func Price(n int64) string {
	if n <= 0 {
		return "—"
	}
	return pricePrinter.Sprintf("₱%d", n)
}
