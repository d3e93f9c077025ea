package server

import (
	"errors"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// formValues encodes the fields of a params struct under their form tag
// names. True booleans encode as "on" like a checked checkbox.
func formValues(p interface{}) (url.Values, error) {
	v := reflect.Indirect(reflect.ValueOf(p))
	if v.Kind() != reflect.Struct {
		return nil, errors.New("query: want struct, got " + v.Kind().String())
	}
	q := make(url.Values)
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("form"), ",")
		if name == "" || name == "-" {
			continue
		}
		f := v.Field(i)
		switch f.Kind() {
		case reflect.String:
			q.Set(name, f.String())
		case reflect.Bool:
			if f.Bool() {
				q.Set(name, "on")
			} else {
				q.Set(name, "false")
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			q.Set(name, strconv.FormatInt(f.Int(), 10))
		case reflect.Float32, reflect.Float64:
			q.Set(name, strconv.FormatFloat(f.Float(), 'g', -1, 64))
		default:
			return nil, errors.New("query: unsupported field " + t.Field(i).Name)
		}
	}
	return q, nil
}
