// Package bind decodes an HTTP form (urlencoded or multipart) into a struct
// and validates it.
//
// Fields are matched by their `form` tag. Supported kinds are string, the
// int and uint families, and bool (checkbox semantics: present = true).
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/validate"
)

// MaxMemory bounds the in-memory part of a multipart form (product images).
const MaxMemory = 8 << 20

// Form parses r and fills dest. Values that fail to parse become field
// errors alongside the validation errors. err is non-nil only for a
// malformed request body.
func Form(r *http.Request, dest any) (errs map[string]string, err error) {
	if err := parse(r); err != nil {
		return nil, err
	}

	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind: dest must be a pointer to struct, got %T", dest)
	}
	rv = rv.Elem()
	rt := rv.Type()

	errs = map[string]string{}
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		key, _, _ := strings.Cut(field.Tag.Get("form"), ",")
		if key == "" || key == "-" {
			continue
		}

		raw, present := lookup(r, key)
		if !present {
			continue
		}
		if msg := assign(rv.Field(i), raw, key); msg != "" {
			errs[key] = msg
		}
	}

	for k, v := range validate.Struct(dest) {
		if _, seen := errs[k]; !seen {
			errs[k] = v
		}
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}

func parse(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err := r.ParseMultipartForm(MaxMemory)
		if err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return fmt.Errorf("bind: parse multipart: %w", err)
		}
		return nil
	}
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("bind: parse form: %w", err)
	}
	return nil
}

func lookup(r *http.Request, key string) (string, bool) {
	if vals, ok := r.Form[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0]), true
	}
	return "", false
}

func assign(v reflect.Value, raw, key string) string {
	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		v.SetBool(raw != "" && raw != "0" && !strings.EqualFold(raw, "false"))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if raw == "" {
			return ""
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Sprintf("The %s field must be an integer.", key)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if raw == "" {
			return ""
		}
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return fmt.Sprintf("The %s field must be a positive integer.", key)
		}
		v.SetUint(n)
	}
	return ""
}
