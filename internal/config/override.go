package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Override is a single section/key=value config override supplied on the
// command line. Values stay raw strings until application, where they are
// coerced to the target field's type.
type Override struct {
	Section string
	Key     string
	Value   string
}

// ParseOverride parses a raw "section/key=value" string. Surrounding
// whitespace on each part is trimmed. Malformed input fails with a message
// naming the offending string.
func ParseOverride(raw string) (Override, error) {
	section, remainder, ok := strings.Cut(raw, "/")
	if !ok {
		return Override{}, fmt.Errorf("%s must have the format section/key=value", raw)
	}
	key, value, ok := strings.Cut(remainder, "=")
	if !ok {
		return Override{}, fmt.Errorf("%s must have the format section/key=value", raw)
	}
	return Override{
		Section: strings.TrimSpace(section),
		Key:     strings.TrimSpace(key),
		Value:   strings.TrimSpace(value),
	}, nil
}

// apply writes the override into the matching config field, located by the
// section and key toml tags.
func (o Override) apply(cfg *Config) error {
	root := reflect.ValueOf(cfg).Elem()
	section, ok := fieldByTag(root, o.Section)
	if !ok {
		return fmt.Errorf("unknown config section %q", o.Section)
	}
	field, ok := fieldByTag(section, o.Key)
	if !ok {
		return fmt.Errorf("unknown config key %q in section %q", o.Key, o.Section)
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(o.Value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(o.Value)
		if err != nil {
			return fmt.Errorf("config value %s/%s: %q is not a boolean", o.Section, o.Key, o.Value)
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int64:
		parsed, err := strconv.ParseInt(o.Value, 10, 64)
		if err != nil {
			return fmt.Errorf("config value %s/%s: %q is not an integer", o.Section, o.Key, o.Value)
		}
		field.SetInt(parsed)
	case reflect.Float64:
		parsed, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			return fmt.Errorf("config value %s/%s: %q is not a number", o.Section, o.Key, o.Value)
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("config value %s/%s cannot be overridden from the command line", o.Section, o.Key)
	}
	return nil
}

func fieldByTag(value reflect.Value, tag string) (reflect.Value, bool) {
	t := value.Type()
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
		if name == tag {
			return value.Field(i), true
		}
	}
	return reflect.Value{}, false
}
