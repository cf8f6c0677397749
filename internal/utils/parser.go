package utils

import (
	"encoding/json"

	"gorm.io/datatypes"
)

// EntityJSON marshals an entity into a jsonb column value. Used when
// capturing audit snapshots of affected records.
func EntityJSON(v any) (datatypes.JSON, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(data), nil
}

// JSONToMap converts a jsonb column value back into a flat string map.
func JSONToMap(jsonData datatypes.JSON) (map[string]string, error) {
	var result map[string]string
	if err := json.Unmarshal(jsonData, &result); err != nil {
		return nil, err
	}
	return result, nil
}
