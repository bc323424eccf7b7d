package handler

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/MichalMitros/property-translation-pipeline/internal/platform"
	"github.com/MichalMitros/property-translation-pipeline/pkg/v1/commander"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaName = "process_site.schema.json"

//go:embed schema/process_site.schema.json
var processSiteSchemaJSON string

var (
	compileOnce       sync.Once
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
)

// decodeMessage validates message against process site command schema and decodes it.
func decodeMessage(msg []byte) (*commander.ProcessSiteCommand, error) {
	value, err := decodeStrictJSON(msg)
	if err != nil {
		return nil, platform.NewValidationError("can't decode process site command", err)
	}

	schema, err := loadSchema()
	if err != nil {
		return nil, fmt.Errorf("can't load command schema: %w", err)
	}

	if err := schema.Validate(value); err != nil {
		return nil, platform.NewValidationError("invalid process site command", err)
	}

	var cmd commander.ProcessSiteCommand
	if err := json.Unmarshal(msg, &cmd); err != nil {
		return nil, platform.NewValidationError("can't decode process site command", err)
	}

	return &cmd, nil
}

func loadSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		compiler.AssertFormat = true

		if err := compiler.AddResource(schemaName, strings.NewReader(processSiteSchemaJSON)); err != nil {
			compiledSchemaErr = fmt.Errorf("can't add schema resource: %w", err)
			return
		}

		compiledSchema, compiledSchemaErr = compiler.Compile(schemaName)
	})

	return compiledSchema, compiledSchemaErr
}

func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("message is empty")
	}

	decoder := json.NewDecoder(bytes.NewReader(trimmed))
	decoder.UseNumber()

	var value any
	if err := decoder.Decode(&value); err != nil {
		return nil, err
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return nil, fmt.Errorf("message contains trailing content")
	}

	return value, nil
}
