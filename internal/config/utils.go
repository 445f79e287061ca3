package config

import (
	"reflect"
	"strings"
)

// GetBoolValue retrieves a boolean value from a nested struct based on a dot-separated path.
// It returns defaultValue if the field does not exist or is a nil pointer.
func GetBoolValue(config interface{}, fieldPath string, defaultValue bool) bool {
	if config == nil {
		return defaultValue
	}

	val := reflect.ValueOf(config)
	for _, field := range strings.Split(fieldPath, ".") {
		if val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return defaultValue
			}
			val = val.Elem()
		}
		if val.Kind() != reflect.Struct {
			return defaultValue
		}
		val = val.FieldByName(field)
		if !val.IsValid() {
			return defaultValue
		}
	}

	switch {
	case val.Kind() == reflect.Ptr && !val.IsNil() && val.Elem().Kind() == reflect.Bool:
		return val.Elem().Bool()
	case val.Kind() == reflect.Bool:
		return val.Bool()
	}
	return defaultValue
}

// SetThen returns value unless it is the zero value of its type, in which case defaultValue.
func SetThen[T any](value T, defaultValue T) T {
	if reflect.ValueOf(&value).Elem().IsZero() {
		return defaultValue
	}
	return value
}
