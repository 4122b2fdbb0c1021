package loader

import (
	"errors"

	"github.com/pelletier/go-toml/v2"
)

// parseTOML parses TOML data into a map.
func parseTOML(source string, data []byte) (map[string]any, error) {
	var config map[string]any
	if err := toml.Unmarshal(data, &config); err != nil {
		perr := &ParseError{
			Path:    source,
			Message: err.Error(),
			Err:     err,
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	return config, nil
}

// EncodeTOML renders v as TOML.
func EncodeTOML(v any) ([]byte, error) {
	return toml.Marshal(v)
}
