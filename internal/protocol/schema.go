package protocol

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBaseURL = "https://atrium.local/schemas/"

var (
	schemaOnce sync.Once
	schemas    map[string]*jsonschema.Schema
	schemaErr  error
)

func loadSchemas() {
	compiler := jsonschema.NewCompiler()
	names := []string{TypeRoster, TypeJoined, TypeLeft, TypePositions, TypeMove}
	for _, name := range names {
		b, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			schemaErr = fmt.Errorf("read schema %s: %w", name, err)
			return
		}
		if err := compiler.AddResource(schemaBaseURL+name+".json", bytes.NewReader(b)); err != nil {
			schemaErr = fmt.Errorf("add schema %s: %w", name, err)
			return
		}
	}
	schemas = make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := compiler.Compile(schemaBaseURL + name + ".json")
		if err != nil {
			schemaErr = fmt.Errorf("compile schema %s: %w", name, err)
			return
		}
		schemas[name] = s
	}
}

func validate(typ string, data []byte) error {
	schemaOnce.Do(loadSchemas)
	if schemaErr != nil {
		return schemaErr
	}
	s, ok := schemas[typ]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("%w: %s: missing data", ErrInvalidPayload, typ)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, typ, err)
	}
	if err := s.Validate(v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, typ, err)
	}
	return nil
}
