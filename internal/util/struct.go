package util

import (
	"fmt"
	"reflect"
	"strings"
)

// IsStructInitialized returns an error naming the first nil pointer, interface,
// map or slice field of s. Fields tagged `wire:"-"` are skipped.
func IsStructInitialized(s interface{}) error {
	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return fmt.Errorf("struct is nil")
		}
		val = val.Elem()
	}

	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", val.Kind())
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := typ.Field(i)
		if strings.TrimSpace(field.Tag.Get("wire")) == "-" {
			continue
		}

		//nolint:exhaustive // only nil-able kinds matter here
		switch val.Field(i).Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if val.Field(i).IsNil() {
				return fmt.Errorf("field %s is not initialized", field.Name)
			}
		}
	}

	return nil
}
