package common

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseFraction 解析 "a/b" 形式的分數字串。
// 只接受 <int>/<int>，帶整數部分的混合分數（"1 1/2"）不在文法內。
func ParseFraction(s string) (float64, bool) {
	parts := strings.SplitN(s, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	num, err1 := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	den, err2 := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0, false
	}
	return num / den, true
}

// CoerceQuantity 將任意型別的數量值轉成 float64。
// 字串含 "/" 視為分數，其餘字串嘗試解析為浮點數，失敗時退回 0。
func CoerceQuantity(v interface{}) float64 {
	switch q := v.(type) {
	case float64:
		return q
	case int:
		return float64(q)
	case json.Number:
		f, err := q.Float64()
		if err != nil {
			return 0
		}
		return f
	case string:
		if strings.Contains(q, "/") {
			if f, ok := ParseFraction(q); ok {
				return f
			}
			return 0
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(q), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// 常見分數的顯示符號
var vulgarFractions = []struct {
	value  float64
	symbol string
}{
	{0.125, "⅛"},
	{0.17, "⅙"},
	{0.2, "⅕"},
	{0.25, "¼"},
	{0.33, "⅓"},
	{0.375, "⅜"},
	{0.4, "⅖"},
	{0.5, "½"},
	{0.6, "⅗"},
	{0.625, "⅝"},
	{0.67, "⅔"},
	{0.75, "¾"},
	{0.8, "⅘"},
	{0.83, "⅚"},
	{0.875, "⅞"},
}

// FormatQuantity 將十進位數量轉成適合顯示的字串，常見小數以分數符號呈現
func FormatQuantity(value float64) string {
	if value == math.Trunc(value) {
		return strconv.FormatFloat(value, 'f', 0, 64)
	}

	whole := math.Floor(value)
	frac := value - whole

	for _, vf := range vulgarFractions {
		if math.Abs(frac-vf.value) < 0.01 {
			if whole > 0 {
				return strconv.FormatFloat(whole, 'f', 0, 64) + " " + vf.symbol
			}
			return vf.symbol
		}
	}

	s := strconv.FormatFloat(value, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
