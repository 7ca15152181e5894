package tags

import (
	"fmt"
	"os"

	"github.com/tidwall/gjson"
)

// Load reads a JSON object of tag -> value pairs from path.
func Load(path string) (*Dictionary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tag dictionary: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes a JSON object into a dictionary, keeping the document's key order.
// String values are used as-is; numbers and booleans keep their literal JSON text.
func Parse(data []byte) (*Dictionary, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON in tag dictionary")
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, fmt.Errorf("tag dictionary must be a JSON object, got %s", root.Type)
	}

	d := New()
	var parseErr error
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		var text string
		switch value.Type {
		case gjson.String:
			text = value.String()
		case gjson.Number, gjson.True, gjson.False:
			text = value.Raw
		default:
			parseErr = fmt.Errorf("tag %q: value must be a string, number or boolean", name)
			return false
		}
		if err := d.Add(name, text); err != nil {
			parseErr = err
			return false
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return d, nil
}
