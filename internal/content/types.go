// Package content provides the week-scoped instructional content domain:
// students, weeks, vocabulary words and affixes.
package content

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a []string as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal(string list) > %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for string list", src)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	if err := json.Unmarshal(data, (*[]string)(l)); err != nil {
		return fmt.Errorf("json.Unmarshal(string list) > %w", err)
	}
	return nil
}
