package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var numberCleaner = strings.NewReplacer(",", "", "，", "", "¥", "", "￥", "", "円", "")

// toFloat coerces loosely typed input. ok is false for missing, empty,
// non-numeric and non-finite values.
func toFloat(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		s := strings.TrimSpace(numberCleaner.Replace(x))
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toQuantity truncates toward zero and clamps negatives to 0.
func toQuantity(v any) int {
	f, ok := toFloat(v)
	if !ok || f <= 0 || f > math.MaxInt32 {
		return 0
	}
	return int(f)
}

func toPrice(v any) float64 {
	f, _ := toFloat(v)
	return f
}

func toCoefficient(v any) float64 {
	if f, ok := toFloat(v); ok {
		return f
	}
	return 1
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}

func toBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1", "yes", "y", "on":
			return true
		}
		return false
	default:
		f, ok := toFloat(v)
		return ok && f != 0
	}
}
