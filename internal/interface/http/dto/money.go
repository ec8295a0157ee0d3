package dto

import "github.com/shopspring/decimal"

// FormatPrice 最小货币单位 → 两位小数的展示字符串
// 例如:5900 → "59.00"
func FormatPrice(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
