package gamehub

import (
	"errors"
)

var ErrNoValueForKey = errors.New("no value found for key")
var ErrValueNotAsserted = errors.New("value could not be asserted to specified type")

func checkAndAssertStringFromMap(src map[string]any, key string) (string, error) {
	data, ok := src[key]
	if !ok {
		return "", ErrNoValueForKey
	}
	value, ok := data.(string)
	if !ok {
		return "", ErrValueNotAsserted
	}

	return value, nil
}

// checkAndAssertInt64FromMap reads a JSON number that must hold a whole value.
func checkAndAssertInt64FromMap(src map[string]any, key string) (int64, error) {
	data, ok := src[key]
	if !ok {
		return 0, ErrNoValueForKey
	}

	value, ok := data.(float64)
	if !ok || value != float64(int64(value)) {
		return 0, ErrValueNotAsserted
	}

	return int64(value), nil
}

// checkAndAssertOptionalInt64FromMap treats a missing key and null alike.
func checkAndAssertOptionalInt64FromMap(src map[string]any, key string) (*int64, error) {
	if data, ok := src[key]; !ok || data == nil {
		return nil, nil
	}
	value, err := checkAndAssertInt64FromMap(src, key)
	if err != nil {
		return nil, err
	}
	return &value, nil
}
