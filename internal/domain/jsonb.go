package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// JSONBStrings stores a string slice in a PostgreSQL JSONB column.
// It implements sql.Scanner and driver.Valuer so sqlx can read and write
// the column without manual marshalling at call sites.
type JSONBStrings []string

// Scan implements the sql.Scanner interface.
func (j *JSONBStrings) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for JSONBStrings")
	}

	if len(data) == 0 {
		*j = JSONBStrings{}
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements the driver.Valuer interface.
func (j JSONBStrings) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(j)
}

// JSONBCounts stores a string-to-count map in a PostgreSQL JSONB column.
type JSONBCounts map[string]int

// Scan implements the sql.Scanner interface.
func (j *JSONBCounts) Scan(value any) error {
	if value == nil {
		*j = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for JSONBCounts")
	}

	if len(data) == 0 {
		*j = JSONBCounts{}
		return nil
	}

	return json.Unmarshal(data, j)
}

// Value implements the driver.Valuer interface.
func (j JSONBCounts) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}
