package display

import (
	"encoding/json"
	"io"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/formulary/errors"
)

// MarshalJSON marshals JSON with pretty formatting for humans and compact
// formatting when the output is piped
func MarshalJSON(v interface{}, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// WriteYAML encodes v as YAML with two-space indentation
func WriteYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, "failed to encode YAML")
	}
	return enc.Close()
}

// WriteTOML encodes v as TOML. TOML documents must be tables, so slices
// are wrapped under an "entries" array of tables.
func WriteTOML(w io.Writer, v interface{}) error {
	enc := toml.NewEncoder(w)
	enc.SetIndentTables(true)
	if err := enc.Encode(tomlDocument(v)); err != nil {
		return errors.Wrap(err, "failed to encode TOML")
	}
	return nil
}

func tomlDocument(v interface{}) interface{} {
	data, err := json.Marshal(v)
	if err != nil || len(data) == 0 || data[0] != '[' {
		return v
	}
	var entries []interface{}
	if err := json.Unmarshal(data, &entries); err != nil {
		return v
	}
	return map[string]interface{}{"entries": entries}
}
