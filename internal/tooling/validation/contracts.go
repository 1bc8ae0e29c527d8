// Package validation checks wire-protocol fixture sets against both the
// typed decoders and the published JSON schema, so the two never drift.
package validation

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/tiger/build-progress-bridge/internal/codec"
	wire "github.com/tiger/build-progress-bridge/pkg/wire/v1"
)

// WireFixtureSummary reports fixture validation totals.
type WireFixtureSummary struct {
	Total    int
	Failed   int
	Failures []string
}

// ValidateWireFixtures validates valid/invalid fixture sets for every wire
// message kind using the default schema location.
func ValidateWireFixtures(root string) (WireFixtureSummary, error) {
	return ValidateWireFixturesWithSchema(filepath.Join("docs", "WireProtocol.schema.json"), root)
}

// ValidateWireFixturesWithSchema validates fixture sets using the typed
// decoders and the JSON schema. A fixture under valid/ must pass both; one
// under invalid/ must fail both.
func ValidateWireFixturesWithSchema(schemaPath, root string) (WireFixtureSummary, error) {
	kinds := []string{
		string(wire.KindTestStarted),
		string(wire.KindTestFinished),
	}

	summary := WireFixtureSummary{}
	compiled, err := compileSchema(schemaPath)
	if err != nil {
		return summary, err
	}

	for _, kind := range kinds {
		for _, validity := range []struct {
			dir        string
			shouldPass bool
		}{
			{dir: "valid", shouldPass: true},
			{dir: "invalid", shouldPass: false},
		} {
			dir := filepath.Join(root, kind, validity.dir)
			items, err := os.ReadDir(dir)
			if err != nil {
				return summary, fmt.Errorf("read fixtures %s: %w", dir, err)
			}
			names := make([]string, 0, len(items))
			for _, item := range items {
				if !item.IsDir() {
					names = append(names, item.Name())
				}
			}
			sort.Strings(names)
			for _, name := range names {
				summary.Total++
				filePath := filepath.Join(dir, name)
				raw, readErr := os.ReadFile(filePath)
				if readErr != nil {
					summary.Failed++
					summary.Failures = append(summary.Failures, fmt.Sprintf("%s: read error: %v", filePath, readErr))
					continue
				}

				typedErr := validateTyped(kind, raw)
				schemaErr := validateAgainstSchema(compiled, raw)

				if validity.shouldPass {
					if typedErr != nil || schemaErr != nil {
						summary.Failed++
						summary.Failures = append(summary.Failures, fmt.Sprintf("%s: expected valid, typed_err=%v schema_err=%v", filePath, typedErr, schemaErr))
					}
					continue
				}

				if typedErr == nil || schemaErr == nil {
					summary.Failed++
					summary.Failures = append(summary.Failures, fmt.Sprintf("%s: expected invalid by both validators, typed_err=%v schema_err=%v", filePath, typedErr, schemaErr))
				}
			}
		}
	}

	return summary, nil
}

// RenderSummary formats a summary for CLI output.
func RenderSummary(summary WireFixtureSummary) string {
	lines := []string{fmt.Sprintf("wire fixtures: total=%d failed=%d", summary.Total, summary.Failed)}
	if len(summary.Failures) > 0 {
		lines = append(lines, "failures:")
		for _, f := range summary.Failures {
			lines = append(lines, "- "+f)
		}
	}
	return strings.Join(lines, "\n")
}

// validateTyped decodes the fixture through the strict codec and runs the
// payload's Validate method. The decoded kind must match the fixture dir.
func validateTyped(kind string, raw []byte) error {
	event, err := codec.Decode(raw)
	if err != nil {
		return err
	}
	switch ev := event.(type) {
	case wire.TestStarted:
		if kind != string(wire.KindTestStarted) {
			return fmt.Errorf("fixture decoded as %s, expected %s", wire.KindTestStarted, kind)
		}
		return ev.Validate()
	case wire.TestFinished:
		if kind != string(wire.KindTestFinished) {
			return fmt.Errorf("fixture decoded as %s, expected %s", wire.KindTestFinished, kind)
		}
		return ev.Validate()
	default:
		return fmt.Errorf("fixture decoded as unrecognized kind")
	}
}

func compileSchema(schemaPath string) (*jsonschema.Schema, error) {
	absSchemaPath, err := filepath.Abs(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("resolve schema path: %w", err)
	}
	if _, err := os.Stat(absSchemaPath); err != nil {
		return nil, fmt.Errorf("schema file unavailable at %s: %w", absSchemaPath, err)
	}

	compiler := jsonschema.NewCompiler()
	f, err := os.Open(absSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("open schema file: %w", err)
	}
	defer f.Close()
	if err := compiler.AddResource(absSchemaPath, f); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(absSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return schema, nil
}

func validateAgainstSchema(schema *jsonschema.Schema, raw []byte) error {
	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	return schema.Validate(payload)
}
