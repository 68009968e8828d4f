package harness

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
)

//go:embed scenario.cue
var schemaSource string

var (
	// schemaMu serializes use of the CUE context.
	schemaMu   sync.Mutex
	schemaOnce sync.Once
	schemaCtx  *cue.Context
	schemaDef  cue.Value
	schemaErr  error
)

// scenarioSchema compiles the embedded schema once.
func scenarioSchema() (*cue.Context, cue.Value, error) {
	schemaOnce.Do(func() {
		schemaCtx = cuecontext.New()
		v := schemaCtx.CompileString(schemaSource, cue.Filename("scenario.cue"))
		if err := v.Err(); err != nil {
			schemaErr = fmt.Errorf("failed to compile scenario schema: %w", err)
			return
		}
		schemaDef = v.LookupPath(cue.ParsePath("#Scenario"))
		if !schemaDef.Exists() {
			schemaErr = fmt.Errorf("scenario schema has no #Scenario")
		}
	})
	return schemaCtx, schemaDef, schemaErr
}

// schemaView projects the structural fields of s into plain Go values for
// unification with #Scenario.
func schemaView(s *Scenario) map[string]any {
	expect := map[string]any{
		"has_result": present(&s.Expect.Result),
	}
	if s.Expect.Error != nil {
		e := map[string]any{"kind": s.Expect.Error.Kind}
		if s.Expect.Error.Message != "" {
			e["message"] = s.Expect.Error.Message
		}
		expect["error"] = e
	}
	if s.Expect.Calls != nil {
		expect["calls"] = *s.Expect.Calls
	}

	assertions := make([]any, 0, len(s.Assertions))
	for _, a := range s.Assertions {
		m := map[string]any{"type": a.Type}
		switch a.Type {
		case AssertCallCount:
			if a.Count != nil {
				m["count"] = *a.Count
			}
		case AssertCallIndices:
			indices := make([]any, len(a.Indices))
			for i, idx := range a.Indices {
				indices[i] = idx
			}
			m["indices"] = indices
		default:
			if a.Index != nil {
				m["index"] = *a.Index
			}
			fields := []any{}
			if present(&a.Acc) {
				fields = append(fields, "acc")
			}
			if present(&a.Cur) {
				fields = append(fields, "cur")
			}
			if present(&a.Out) {
				fields = append(fields, "out")
			}
			m["fields"] = fields
		}
		assertions = append(assertions, m)
	}

	properties := make([]any, len(s.Properties))
	for i, p := range s.Properties {
		properties[i] = p
	}

	view := map[string]any{
		"name":       s.Name,
		"op":         s.Op,
		"has_seed":   s.HasSeed(),
		"expect":     expect,
		"assertions": assertions,
		"properties": properties,
	}
	if s.Description != "" {
		view["description"] = s.Description
	}
	return view
}

// validateSchema unifies the scenario with the embedded CUE schema.
func validateSchema(s *Scenario) []ValidationError {
	ctx, def, err := scenarioSchema()
	if err != nil {
		return []ValidationError{{Field: "schema", Message: err.Error(), Code: ErrSchema}}
	}

	schemaMu.Lock()
	defer schemaMu.Unlock()

	v := def.Unify(ctx.Encode(schemaView(s)))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return schemaErrors(err)
	}
	return nil
}

// schemaErrors flattens CUE errors into validation errors keyed by path.
func schemaErrors(err error) []ValidationError {
	var out []ValidationError
	for _, e := range errors.Errors(err) {
		field := strings.Join(e.Path(), ".")
		if field == "" {
			field = "scenario"
		}
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   field,
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchema,
		})
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Field: "scenario", Message: err.Error(), Code: ErrSchema})
	}
	return out
}
