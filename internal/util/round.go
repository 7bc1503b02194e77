package util

import "github.com/shopspring/decimal"

// Round 四舍五入到指定小数位
func Round(value float64, places int32) float64 {
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// FormatFixed 按固定小数位输出，CSV 使用
func FormatFixed(value float64, places int32) string {
	return decimal.NewFromFloat(value).StringFixed(places)
}
