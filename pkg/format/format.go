// Package format renders prices and dates the way the booking pages and
// emails display them (en-IN conventions).
package format

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// RupeeSymbol prefixes every formatted amount.
const RupeeSymbol = "₹"

var printer = message.NewPrinter(language.MustParse("en-IN"))

// Currency formats an amount in rupees with no fractional digits and Indian
// digit grouping, e.g. 1200 -> "₹1,200".
func Currency(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	sign := ""
	if rounded.IsNegative() {
		sign = "-"
		rounded = rounded.Abs()
	}
	return sign + RupeeSymbol + printer.Sprint(number.Decimal(rounded.IntPart()))
}

// Date renders the long form used in confirmation emails: "Monday, 10 June 2024".
func Date(d time.Time) string {
	return d.Format("Monday, 2 January 2006")
}

// ShortDate renders "10 Jun 2024".
func ShortDate(d time.Time) string {
	return d.Format("02 Jan 2006")
}

// DateTime renders "10 Jun 2024, 09:00 AM" for created timestamps.
func DateTime(t time.Time) string {
	return t.Format("02 Jan 2006, 03:04 PM")
}
