package wealthlens

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const isoDateLayout = "2006-01-02"

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

func normalizeAssetType(assetType string) string {
	return strings.ToLower(strings.TrimSpace(assetType))
}

func normalizeTransactionType(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}

func isValidTransactionType(t string) bool {
	for _, v := range TransactionTypes {
		if v == t {
			return true
		}
	}
	return false
}

func parseISODate(value string) (time.Time, error) {
	t, err := time.Parse(isoDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", value, err)
	}
	return t, nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}

func round4(value float64) float64 {
	return math.Round(value*10000) / 10000
}

func stringPtr(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

func floatPtr(value float64) *float64 {
	return &value
}
