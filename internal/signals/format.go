package signals

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatKind is the explicit display format attached to a placeholder in the
// registry, replacing per-call inference from the placeholder's name.
type FormatKind int

const (
	FormatRaw FormatKind = iota
	FormatPercent
	FormatCurrency
	FormatCount
	FormatMonths
)

func (k FormatKind) String() string {
	switch k {
	case FormatPercent:
		return "percent"
	case FormatCurrency:
		return "currency"
	case FormatCount:
		return "count"
	case FormatMonths:
		return "months"
	default:
		return "raw"
	}
}

// FormatValue renders a resolved signal value for display. Percent and
// currency values are bare numbers — templates carry the % and $ symbols —
// with currency values getting thousands separators.
func FormatValue(kind FormatKind, value any) string {
	switch kind {
	case FormatPercent:
		return trimFloat(toFloat(value))
	case FormatCurrency:
		return groupThousands(toFloat(value))
	case FormatCount:
		return strconv.Itoa(int(math.Round(toFloat(value))))
	case FormatMonths:
		return strconv.FormatFloat(toFloat(value), 'f', 1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}

func toFloat(value any) float64 {
	switch v := value.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// trimFloat renders whole numbers without a decimal point and everything else
// with one decimal place. Rounding first absorbs float artifacts like
// 0.68*100 = 68.00000000000001.
func trimFloat(f float64) string {
	r := math.Round(f*10) / 10
	if r == math.Trunc(r) {
		return strconv.FormatInt(int64(r), 10)
	}
	return strconv.FormatFloat(r, 'f', 1, 64)
}

func groupThousands(f float64) string {
	// Round to cents before splitting so the carry propagates into the whole
	// part (1234.999 is 1,235.00, not 1,234.00).
	f = math.Round(f*100) / 100
	neg := f < 0
	abs := math.Abs(f)
	whole := int64(math.Trunc(abs))
	frac := abs - math.Trunc(abs)
	s := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
		if len(s) > lead {
			b.WriteByte(',')
		}
	}
	for i := lead; i < len(s); i += 3 {
		b.WriteString(s[i : i+3])
		if i+3 < len(s) {
			b.WriteByte(',')
		}
	}
	if frac >= 0.005 {
		b.WriteString(strconv.FormatFloat(frac, 'f', 2, 64)[1:])
	}
	return b.String()
}
