// Package template renders the {{key}} placeholders used in automation
// action parameters.
package template

import (
	"fmt"
	"regexp"
	"strconv"
)

var placeholder = regexp.MustCompile(`\{\{(\w+)\}\}`)

// Render substitutes every {{key}} in input with the matching value from
// data. Missing keys render as the empty string; rendering never fails.
func Render(input string, data map[string]any) string {
	return placeholder.ReplaceAllStringFunc(input, func(match string) string {
		key := placeholder.FindStringSubmatch(match)[1]

		value, ok := data[key]
		if !ok || value == nil {
			return ""
		}

		return stringify(value)
	})
}

func stringify(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
