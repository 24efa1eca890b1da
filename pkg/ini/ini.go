package ini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/arthur-debert/cs01/pkg/errors"
)

// CoreHeader is the first line of every repository config file.
const CoreHeader = "[core]"

// Settings maps keys to values within one (section, subsection) pair.
type Settings map[string]any

// Section maps subsection names to their settings. The empty name
// holds the settings of the bare section.
type Section map[string]Settings

// Config maps section names to sections.
type Config map[string]Section

// Marshal renders cfg as config file text. cfg may be a Config or any
// map with string keys whose values are themselves string-keyed maps
// two levels deep, as produced by JSON or TOML decoders.
// Nothing is returned on error.
func Marshal(cfg any) (string, error) {
	sections, ok := asMapping(cfg)
	if !ok || len(sections) == 0 {
		return "", errors.New(errors.ErrInvalidInput, "invalid config object: must be a non-empty mapping")
	}

	var out strings.Builder
	for _, sectionName := range sortedKeys(sections) {
		subsections, ok := asMapping(sections[sectionName])
		if !ok {
			return "", errors.Newf(errors.ErrInvalidInput,
				"invalid section %q: must contain subsection mappings", sectionName).
				WithDetail("section", sectionName)
		}

		for _, subsectionName := range sortedKeys(subsections) {
			settings, ok := asMapping(subsections[subsectionName])
			if !ok {
				return "", errors.Newf(errors.ErrInvalidInput,
					"invalid settings for %s: must be a mapping", header(sectionName, subsectionName)).
					WithDetail("section", sectionName).
					WithDetail("subsection", subsectionName)
			}

			out.WriteString(header(sectionName, subsectionName))
			out.WriteByte('\n')

			for _, key := range sortedKeys(settings) {
				value, err := formatValue(settings[key])
				if err != nil {
					return "", errors.Wrapf(err, errors.ErrInvalidInput,
						"invalid value for %s.%s", sectionName, key)
				}
				fmt.Fprintf(&out, "  %s = %s\n", key, value)
			}
		}
	}

	return out.String(), nil
}

// HasCoreHeader reports whether content, trimmed of surrounding
// whitespace, starts with the [core] section header.
func HasCoreHeader(content []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(content), []byte(CoreHeader))
}

func header(section, subsection string) string {
	if subsection == "" {
		return "[" + section + "]"
	}
	return "[" + section + ` "` + subsection + `"]`
}

// asMapping converts any map keyed by a string kind into a generic map.
func asMapping(v any) (map[string]any, bool) {
	if v == nil {
		return nil, false
	}
	if m, ok := v.(map[string]any); ok {
		return m, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	if rv.IsNil() {
		return nil, false
	}

	m := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		m[iter.Key().String()] = iter.Value().Interface()
	}
	return m, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders scalars directly and nested structures as JSON.
func formatValue(v any) (string, error) {
	if v == nil {
		return "null", nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	}

	return encodeJSON(v)
}

func encodeJSON(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
