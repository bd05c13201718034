package submit

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// fieldState classifies the outcome of coercing one raw field value.
type fieldState int

const (
	fieldOK fieldState = iota
	fieldAbsent
	// fieldInvalid means the value has the right JSON type but cannot be
	// used. The field (or its entity) is dropped, never the batch.
	fieldInvalid
	// fieldMismatch means the client sent the wrong JSON type.
	fieldMismatch
)

func (s fieldState) String() string {
	switch s {
	case fieldOK:
		return "ok"
	case fieldAbsent:
		return "absent"
	case fieldInvalid:
		return "invalid"
	case fieldMismatch:
		return "type mismatch"
	default:
		return "unknown"
	}
}

func stringField(raw interface{}, maxLen int) (string, fieldState) {
	if raw == nil {
		return "", fieldAbsent
	}
	s, ok := raw.(string)
	if !ok {
		return "", fieldMismatch
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fieldInvalid
	}
	if maxLen > 0 {
		if r := []rune(s); len(r) > maxLen {
			s = string(r[:maxLen])
		}
	}
	return s, fieldOK
}

// number extracts a float from any numeric JSON representation. Numeric
// strings are accepted the same way older clients send them.
func number(raw interface{}) (float64, fieldState) {
	switch v := raw.(type) {
	case nil:
		return 0, fieldAbsent
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, fieldInvalid
		}
		return f, fieldOK
	case float64:
		return v, fieldOK
	case float32:
		return float64(v), fieldOK
	case int:
		return float64(v), fieldOK
	case int64:
		return float64(v), fieldOK
	case int32:
		return float64(v), fieldOK
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fieldMismatch
		}
		return f, fieldOK
	default:
		return 0, fieldMismatch
	}
}

func floatField(raw interface{}, min, max float64) (float64, fieldState) {
	f, state := number(raw)
	if state != fieldOK {
		return 0, state
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < min || f > max {
		return 0, fieldInvalid
	}
	return f, fieldOK
}

func intField(raw interface{}, min, max int64) (int64, fieldState) {
	if n, ok := raw.(json.Number); ok {
		i, err := n.Int64()
		if err == nil {
			if i < min || i > max {
				return 0, fieldInvalid
			}
			return i, fieldOK
		}
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fieldInvalid
		}
	}
	f, state := number(raw)
	if state != fieldOK {
		return 0, state
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, fieldInvalid
	}
	// float64(math.MaxInt64) rounds up to 2^63, which int64 cannot hold
	if f >= 1<<63 || f < -(1<<63) {
		return 0, fieldInvalid
	}
	i := int64(f)
	if i < min || i > max {
		return 0, fieldInvalid
	}
	return i, fieldOK
}

// enumTable maps every accepted lower-case token to its canonical token.
type enumTable map[string]string

func enumField(raw interface{}, table enumTable) (string, fieldState) {
	s, state := stringField(raw, 0)
	if state != fieldOK {
		return "", state
	}
	canonical, ok := table[strings.ToLower(s)]
	if !ok {
		return "", fieldInvalid
	}
	return canonical, fieldOK
}

const (
	macZero      = "000000000000"
	macBroadcast = "ffffffffffff"
)

// macField accepts "01:23:45:67:89:ab", "01-23-45-67-89-ab" or
// "0123456789ab" and returns the 12 lower-case hex digit form.
func macField(raw interface{}) (string, fieldState) {
	s, state := stringField(raw, 0)
	if state != fieldOK {
		return "", state
	}
	s = strings.ToLower(s)
	if len(s) == 12 {
		s = colonMAC(s)
	}
	if len(s) != 17 || validate.Var(s, "mac") != nil {
		return "", fieldInvalid
	}
	s = macSeparators.Replace(s)
	if s == macZero || s == macBroadcast {
		return "", fieldInvalid
	}
	return s, fieldOK
}

var macSeparators = strings.NewReplacer(":", "", "-", "")

// colonMAC turns 12 characters into the 6 colon separated octet form.
func colonMAC(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i += 2 {
		if i > 0 {
			b.WriteByte(':')
		}
		b.WriteString(s[i : i+2])
	}
	return b.String()
}

func intPtr(v int64) *int64 {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}

func stringPtr(v string) *string {
	return &v
}
