package patterns

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFile overlays the YAML file at path on top of the built-in definition and
// compiles the result. Keys absent from the file keep their built-in value;
// the regex cascades are not overridable.
func LoadFile(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading patterns file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes is LoadFile for in-memory YAML.
func LoadBytes(data []byte) (*Library, error) {
	def := DefaultDefinition()
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("error parsing patterns file: %w", err)
	}

	builtin := DefaultDefinition()
	def.CurrencyMarker = builtin.CurrencyMarker
	def.AmountPatterns = builtin.AmountPatterns
	def.MerchantPatterns = builtin.MerchantPatterns

	lib, err := Compile(def)
	if err != nil {
		return nil, fmt.Errorf("invalid patterns file: %w", err)
	}
	return lib, nil
}
