package rules

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/nudgecrm/nudge/pkg/models"
)

// EvaluateCondition applies one condition to the trigger context. It is
// pure and never panics: an unknown operator evaluates to false, and an
// unresolvable field path fails every operator except not_equals, no
// matter what value the condition carries.
func EvaluateCondition(tc models.TriggerContext, cond models.Condition) bool {
	fieldValue, found := tc.Field(cond.Field)
	if !found {
		return cond.Operator == models.OperatorNotEquals
	}

	switch cond.Operator {
	case models.OperatorEquals:
		return equalValues(fieldValue, cond.Value)
	case models.OperatorNotEquals:
		return !equalValues(fieldValue, cond.Value)
	case models.OperatorContains:
		if fieldValue == nil {
			return false
		}

		return strings.Contains(coerceString(fieldValue), coerceString(cond.Value))
	case models.OperatorGreaterThan:
		if fieldValue == nil {
			return false
		}

		return compareValues(fieldValue, cond.Value) > 0
	case models.OperatorLessThan:
		if fieldValue == nil {
			return false
		}

		return compareValues(fieldValue, cond.Value) < 0
	default:
		return false
	}
}

// equalValues is strict equality, except that numeric operands compare by
// value: JSON decoding erases the int/float distinction, so 7 and 7.0 are
// the same number.
func equalValues(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			return af == bf
		}

		return false
	}

	return reflect.DeepEqual(a, b)
}

// compareValues orders two values: numerically when both sides are numbers
// (natively or as numeric strings), lexicographically otherwise.
func compareValues(a, b any) int {
	af, aok := numericValue(a)
	bf, bok := numericValue(b)

	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}

	return strings.Compare(coerceString(a), coerceString(b))
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()

		return f, err == nil
	default:
		return 0, false
	}
}

func numericValue(v any) (float64, bool) {
	if f, ok := toFloat(v); ok {
		return f, true
	}

	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err == nil {
			return f, true
		}
	}

	return 0, false
}

func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", v)
	}
}
