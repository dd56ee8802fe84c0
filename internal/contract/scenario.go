package contract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/huangsam/forecast/schema"
	"gopkg.in/yaml.v3"
)

// ErrEmptyScenario is returned for scenario files without items.
var ErrEmptyScenario = errors.New("scenario declares no items")

// LoadScenario reads and validates a scenario file.
func LoadScenario(path string) (*schema.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	sc, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// ParseScenario decodes a scenario document. Unknown fields are rejected so typos
// in pattern keys do not silently drop behavior.
func ParseScenario(data []byte) (*schema.Scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc schema.Scenario
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScenario
		}
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	if len(sc.Items) == 0 {
		return nil, ErrEmptyScenario
	}

	seen := make(map[string]struct{}, len(sc.Items))
	for i, it := range sc.Items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, fmt.Errorf("item %d has no name", i)
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate item name '%s'", name)
		}
		seen[name] = struct{}{}
		if len(it.Patterns) == 0 {
			return nil, fmt.Errorf("item '%s' has no patterns", name)
		}
	}
	if sc.Name == "" {
		sc.Name = sc.Items[0].Name
	}
	return &sc, nil
}
