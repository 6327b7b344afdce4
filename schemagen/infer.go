package schemagen

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// maxDecimalPrecision is the SQL Server DECIMAL precision ceiling.
const maxDecimalPrecision = 38

// varcharBuckets are the bounded string lengths tried in order; observed
// lengths above the last bucket fall through to NVARCHAR(MAX).
var varcharBuckets = []int{50, 100, 255}

type dateLayout struct {
	layout  string
	hasTime bool
}

var dateLayouts = []dateLayout{
	{"2006-01-02", false},
	{"2006/01/02", false},
	{"02/01/2006", false},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02T15:04:05", true},
	{"02/01/2006 15:04:05", true},
}

// InferColumn derives the narrowest SQL type accepting every sampled value
// of one column, walking the widening ladder INT -> DECIMAL -> DATE/DATETIME
// -> NVARCHAR(n) -> NVARCHAR(MAX). Empty values are skipped and mark the
// column nullable. A column with no non-empty values defaults to nullable
// NVARCHAR(MAX).
func InferColumn(sample ColumnSample) InferredColumn {
	inf := newInference()
	for _, v := range sample.Values {
		inf.observe(v)
	}
	return InferredColumn{
		Original: sample.Header,
		Type:     inf.resolve(),
		Nullable: inf.nullable || inf.nonEmpty == 0,
	}
}

// inference is the per-column scan state. kind only ever moves forward
// through the ladder; the stats cover every non-empty value seen so the
// terminal type can be sized without a second pass.
type inference struct {
	kind     SQLTypeKind
	nullable bool
	nonEmpty int

	maxLen    int // rune length, for NVARCHAR sizing
	intDigits int // digits left of the decimal point
	scale     int // digits right of the decimal point
	dateCount int // non-empty values that parsed as a date or datetime
	sawTime   bool
}

func newInference() *inference {
	return &inference{kind: TypeInt}
}

func (inf *inference) observe(raw string) {
	v := strings.TrimSpace(raw)
	if v == "" {
		inf.nullable = true
		return
	}
	inf.nonEmpty++

	if n := utf8.RuneCountInString(v); n > inf.maxLen {
		inf.maxLen = n
	}
	// Numeric and temporal stats cover every value, not just the ones seen
	// after a widening step, so the terminal type is sized for the whole
	// sample.
	if d, ok := acceptDecimal(v); ok {
		inf.trackDecimal(d)
	}
	if hasTime, ok := acceptDate(v); ok {
		inf.dateCount++
		inf.sawTime = inf.sawTime || hasTime
	}

	for !inf.accepts(v) {
		inf.widen()
	}
}

func (inf *inference) accepts(v string) bool {
	switch inf.kind {
	case TypeInt:
		return acceptInt(v)
	case TypeDecimal:
		_, ok := acceptDecimal(v)
		return ok
	case TypeDate:
		_, ok := acceptDate(v)
		return ok
	default:
		return true
	}
}

func (inf *inference) widen() {
	switch inf.kind {
	case TypeInt:
		inf.kind = TypeDecimal
	case TypeDecimal:
		inf.kind = TypeDate
	case TypeDate:
		inf.kind = TypeNVarChar
	default:
		inf.kind = TypeNVarCharMax
	}
}

func (inf *inference) trackDecimal(d decimal.Decimal) {
	scale := 0
	if d.Exponent() < 0 {
		scale = int(-d.Exponent())
	}
	if scale > inf.scale {
		inf.scale = scale
	}
	digits := len(d.Abs().Truncate(0).String())
	if digits > inf.intDigits {
		inf.intDigits = digits
	}
}

func (inf *inference) resolve() SQLType {
	if inf.nonEmpty == 0 {
		return SQLType{Kind: TypeNVarCharMax}
	}

	switch inf.kind {
	case TypeInt:
		return SQLType{Kind: TypeInt}
	case TypeDecimal:
		precision := inf.intDigits + inf.scale
		if precision > maxDecimalPrecision {
			// No DECIMAL column can hold the sampled digits.
			return inf.stringType()
		}
		if precision < 1 {
			precision = 1
		}
		return SQLType{Kind: TypeDecimal, Precision: precision, Scale: inf.scale}
	case TypeDate:
		// Numeric values seen before the widening step would not load into
		// a temporal column, so a mixed sample falls through to strings.
		if inf.dateCount < inf.nonEmpty {
			return inf.stringType()
		}
		if inf.sawTime {
			return SQLType{Kind: TypeDateTime}
		}
		return SQLType{Kind: TypeDate}
	default:
		return inf.stringType()
	}
}

func (inf *inference) stringType() SQLType {
	for _, bucket := range varcharBuckets {
		if inf.maxLen <= bucket {
			return SQLType{Kind: TypeNVarChar, Length: bucket}
		}
	}
	return SQLType{Kind: TypeNVarCharMax}
}

// hasLeadingZero reports a zero-padded numeric-looking value such as "007"
// or "-012". Integer or decimal rendering would drop the padding, so such
// values must widen past both numeric candidates.
func hasLeadingZero(v string) bool {
	s := strings.TrimLeft(v, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] >= '0' && s[1] <= '9'
}

func acceptInt(v string) bool {
	if hasLeadingZero(v) {
		return false
	}
	_, err := strconv.ParseInt(v, 10, 64)
	return err == nil
}

func acceptDecimal(v string) (decimal.Decimal, bool) {
	if hasLeadingZero(v) {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func acceptDate(v string) (hasTime, ok bool) {
	for _, dl := range dateLayouts {
		if _, err := time.Parse(dl.layout, v); err == nil {
			return dl.hasTime, true
		}
	}
	return false, false
}

// InferColumns runs normalization and inference over every column of a
// sampled file. Identifier uniqueness is scoped to the table: the first
// occurrence of a base identifier keeps it, later collisions are suffixed.
func InferColumns(samples []ColumnSample) []InferredColumn {
	seen := make(map[string]struct{}, len(samples))
	columns := make([]InferredColumn, 0, len(samples))
	for _, sample := range samples {
		col := InferColumn(sample)
		col.Name = NormalizeIdentifier(sample.Header, seen)
		columns = append(columns, col)
	}
	return columns
}
