package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatValue renders a scalar of unknown primitive kind as a deterministic
// string for document content and metadata:
//
//   - missing/null (nil, empty string, NaN, zero time) -> "N/A"
//   - bool -> "true"/"false"
//   - time -> YYYY-MM-DD
//   - float with zero fractional part -> integer text
//   - other numbers -> natural text
//   - anything else -> default text
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "N/A"
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "N/A"
		}
		return s
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		if x.IsZero() {
			return "N/A"
		}
		return x.Format("2006-01-02")
	case float64:
		return formatFloat(x)
	case float32:
		return formatFloat(float64(x))
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "N/A"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
