package common

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ParseJSON 解析 JSON 字符串到結構體
func ParseJSON(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, false)
}

// ParseJSONStrict 解析 JSON 字符串到結構體（禁止未知欄位）
func ParseJSONStrict(data string, v interface{}) error {
	return decodeJSON(strings.NewReader(data), v, true)
}

// ParseJSONBytes 解析 JSON 位元組切片到結構體
func ParseJSONBytes(data []byte, v interface{}) error {
	return decodeJSON(bytes.NewReader(data), v, false)
}

func decodeJSON(r io.Reader, v interface{}, disallowUnknown bool) error {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if disallowUnknown {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return err
	}

	// 確保沒有多餘資料
	for {
		t, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// 若讀到額外 token，視為錯誤
		if t != nil {
			return fmt.Errorf("unexpected extra JSON data")
		}
	}
}

// ToJSON 將結構體轉換為 JSON 字符串
func ToJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ToJSONIndent 將結構體轉換為縮排後的 JSON 字符串
func ToJSONIndent(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var (
	unquotedKeyPattern  = regexp.MustCompile(`([{\[,]\s*)([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	codeFencePattern    = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	valueFracPattern    = regexp.MustCompile(`:\s*(\d+)/(\d+)\s*([,}\]])`)
	trailingCommaRegexp = regexp.MustCompile(`,\s*([\]}])`)
)

// QuoteJSONKeys 將未加雙引號的鍵補上雙引號
func QuoteJSONKeys(raw string) string {
	return unquotedKeyPattern.ReplaceAllString(raw, `$1"$2":`)
}

// StripCodeFence 去除包裹 JSON 的 markdown code fence，沒有 fence 時原樣返回
func StripCodeFence(raw string) string {
	if m := codeFencePattern.FindStringSubmatch(raw); m != nil {
		return m[1]
	}
	return strings.TrimSpace(raw)
}

// ExtractJSONObject 以大括號深度計數抽出第一個完整的 JSON 物件。
// 找不到配對的物件時返回 false。
func ExtractJSONObject(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	if start == -1 {
		return "", false
	}

	depth := 0
	for i := start; i < len(raw); i++ {
		switch raw[i] {
		case '{':
			depth++
		case '}':
			depth--
		}
		if depth == 0 {
			return raw[start : i+1], true
		}
	}
	return "", false
}

// QuoteFractions 將 JSON 值位置的 <int>/<int> 分數改寫成帶引號的字串，
// 例如 "quantity": 1/2 變成 "quantity": "1/2"，後續再統一轉成數值
func QuoteFractions(raw string) string {
	return valueFracPattern.ReplaceAllString(raw, `: "$1/$2"$3`)
}

// InlineFractions 將 JSON 值位置的 <int>/<int> 分數直接換算成十進位數值
func InlineFractions(raw string) string {
	return valueFracPattern.ReplaceAllStringFunc(raw, func(m string) string {
		sub := valueFracPattern.FindStringSubmatch(m)
		num, _ := strconv.ParseFloat(sub[1], 64)
		den, _ := strconv.ParseFloat(sub[2], 64)
		if den == 0 {
			return ": 0" + sub[3]
		}
		return fmt.Sprintf(": %s%s", strconv.FormatFloat(num/den, 'f', -1, 64), sub[3])
	})
}

// StripTrailingCommas 去除陣列與物件結尾多餘的逗號
func StripTrailingCommas(raw string) string {
	return trailingCommaRegexp.ReplaceAllString(raw, `$1`)
}

// NormalizeQuotes 將單引號字串定界符換成雙引號
func NormalizeQuotes(raw string) string {
	return strings.ReplaceAll(raw, "'", `"`)
}
