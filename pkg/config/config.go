// Package config loads configuration structs from YAML files and
// environment variables using `env`, `yaml`, `default` and `required`
// struct tags. Environment variables win over file values, defaults fill
// whatever is still zero, and required fields without a value fail the
// load.
package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"
)

var durationType = reflect.TypeOf(time.Duration(0))

// Validator allows config structs to implement custom validation logic.
// When the loaded type implements it, Validate is called after all
// sources are applied.
type Validator interface {
	Validate() error
}

// Load reads an optional YAML file, overlays environment variables, then
// applies defaults and required checks. An empty path skips the file
// stage; with allowFileErrors set, unreadable or malformed files degrade
// to env-only loading.
func Load[T any](dest *T, path string, allowFileErrors bool) error {
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err != nil && !allowFileErrors:
			return fmt.Errorf("failed to read config file: %w", err)
		case err == nil:
			if err := yaml.Unmarshal(data, dest); err != nil {
				if !allowFileErrors {
					return fmt.Errorf("failed to parse config file: %w", err)
				}
			}
		}
	}
	return FromEnv(dest)
}

// FromEnv loads configuration from environment variables only.
func FromEnv[T any](dest *T) error {
	val := reflect.ValueOf(dest).Elem()

	fromEnv, err := applyEnv(val, val.Type())
	if err != nil {
		return err
	}
	if err := applyDefaults(val, val.Type(), fromEnv); err != nil {
		var zero T
		*dest = zero
		return err
	}

	if v, ok := any(dest).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
	}
	return nil
}

// applyEnv walks the struct and sets fields from their env tags. It
// returns the set of fields that were populated so defaults do not
// clobber explicit zero values.
func applyEnv(val reflect.Value, t reflect.Type) (map[string]bool, error) {
	set := make(map[string]bool)

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			nested, err := applyEnv(field, fieldType.Type)
			if err != nil {
				return nil, err
			}
			for k, v := range nested {
				set[k] = v
			}
			continue
		}

		tag := fieldType.Tag.Get("env")
		if tag == "" {
			continue
		}
		envVal := os.Getenv(tag)
		if envVal == "" {
			continue
		}

		if err := setField(field, envVal); err != nil {
			return nil, fmt.Errorf("env %s: %w", tag, err)
		}
		set[t.Name()+"."+fieldType.Name] = true
	}
	return set, nil
}

// applyDefaults fills zero fields from default tags and collects missing
// required fields into a single multierror.
func applyDefaults(val reflect.Value, t reflect.Type, fromEnv map[string]bool) error {
	var result error

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := t.Field(i)

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := applyDefaults(field, fieldType.Type, fromEnv); err != nil {
				result = multierror.Append(result, err)
			}
			continue
		}

		defaultTag := fieldType.Tag.Get("default")
		required := strings.EqualFold(fieldType.Tag.Get("required"), "true")
		if required && defaultTag != "" {
			required = false
		}

		if field.IsZero() && required {
			result = multierror.Append(result, fmt.Errorf(
				"required field env:%s / yaml:%s is missing",
				fieldType.Tag.Get("env"), fieldType.Tag.Get("yaml")))
			continue
		}

		key := t.Name() + "." + fieldType.Name
		if field.IsZero() && defaultTag != "" && !fromEnv[key] {
			if err := setField(field, defaultTag); err != nil {
				result = multierror.Append(result, fmt.Errorf("default for %s: %w", fieldType.Name, err))
			}
		}
	}
	return result
}

func setField(field reflect.Value, raw string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(raw)
	case reflect.Int, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid int %q: %w", raw, err)
		}
		field.SetInt(n)
	case reflect.Float64:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid float %q: %w", raw, err)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid bool %q: %w", raw, err)
		}
		field.SetBool(b)
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type %s", field.Type())
		}
		parts := strings.Split(raw, ",")
		slice := reflect.MakeSlice(field.Type(), len(parts), len(parts))
		for i, p := range parts {
			slice.Index(i).SetString(strings.TrimSpace(p))
		}
		field.Set(slice)
	default:
		return fmt.Errorf("unsupported kind %s", field.Kind())
	}
	return nil
}
