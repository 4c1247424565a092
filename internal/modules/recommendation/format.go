package recommendation

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// rupiah renders whole-rupiah amounts with Indonesian digit grouping, e.g.
// "Rp 10.000.000". IDR has no meaningful minor unit at these magnitudes, so
// amounts are rounded to whole rupiah before formatting.
var rupiah = money.NewFormatter(0, ",", ".", money.GetCurrency(money.IDR).Grapheme, "$ 1")

// formatRupiah formats a rupiah amount for display.
func formatRupiah(amount float64) string {
	return rupiah.Format(int64(math.Round(amount)))
}

// formatPercent formats a ratio as a percentage with two decimals, e.g.
// 0.1234 -> "12.34%".
func formatPercent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}

// formatRatio formats a bare ratio with two decimals, e.g. "1.25".
func formatRatio(value float64) string {
	return fmt.Sprintf("%.2f", value)
}
