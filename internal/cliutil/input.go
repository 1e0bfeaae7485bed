package cliutil

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pwithnall/walbottle/jsonvalue"
)

// ErrReadInput reports a filesystem or stdin read failure, wrapped with the
// offending path, the way magicschema.ErrReadInput is used in MacroPower-x's
// cmd/magicschema/main.go.
var ErrReadInput = errors.New("read input")

// ReadFile reads path ("-" for stdin) and decodes it as JSON or, for a
// .yaml/.yml suffix, as YAML transcoded directly into a jsonvalue.Value.
func ReadFile(path string) (jsonvalue.Value, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}

	if path != "-" && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
		v, err := DecodeYAML(data)
		if err != nil {
			return jsonvalue.Value{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
		}
		return v, nil
	}

	v, err := jsonvalue.Parse(data)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return v, nil
}

// ReadSchemaBytes reads path the same way ReadFile does, but returns JSON
// bytes suitable for schema.Load rather than a jsonvalue.Value: YAML input is
// transcoded to its canonical JSON form, JSON input passes through as-is.
func ReadSchemaBytes(path string) ([]byte, error) {
	if path != "-" && (strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml")) {
		v, err := ReadFile(path)
		if err != nil {
			return nil, err
		}
		return []byte(jsonvalue.Canonical(v)), nil
	}

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadInput, path, err)
	}
	return data, nil
}
