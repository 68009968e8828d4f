package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/legendsbarber/seqfold/internal/eval"
	"github.com/legendsbarber/seqfold/internal/seq"
	"github.com/legendsbarber/seqfold/internal/value"
)

// Scenario defines a conformance test scenario: one reduce or map call
// together with what it must produce.
//
// Value-bearing fields are kept as raw YAML nodes so the difference between
// an absent key and an explicit null survives decoding. Holes are written
// with the !hole tag and callables with !fn.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Op is "reduce" or "map".
	Op string `yaml:"op"`

	// Sequence must be a YAML sequence.
	Sequence yaml.Node `yaml:"sequence"`

	// Callback is any value; only !fn values are callable.
	Callback yaml.Node `yaml:"callback"`

	// Seed is supplied when the key is present, even as "seed: ~".
	Seed yaml.Node `yaml:"seed"`

	Expect Expect `yaml:"expect"`

	// Assertions validate the call trace.
	// Supported types: call_count, call_indices, call_contains
	Assertions []Assertion `yaml:"assertions,omitempty"`

	// Properties names algebraic checks run against the same inputs.
	// Supported: left_fold, no_seed_equivalence, hole_transparency, map_shape
	Properties []string `yaml:"properties,omitempty"`

	// path is the file the scenario was loaded from, if any.
	path string
}

// Expect is the required outcome. Exactly one of Result and Error is set.
type Expect struct {
	Result yaml.Node    `yaml:"result"`
	Error  *ExpectError `yaml:"error,omitempty"`

	// Calls is the expected number of callback calls.
	Calls *int `yaml:"calls,omitempty"`
}

// ExpectError names the expected error kind. Message, when set, must match
// exactly.
type ExpectError struct {
	Kind    string `yaml:"kind"`
	Message string `yaml:"message,omitempty"`
}

// Assertion validates the call trace.
type Assertion struct {
	// Type specifies the assertion type:
	// - "call_count": exactly Count calls were made
	// - "call_indices": calls visited exactly Indices, in order
	// - "call_contains": some call matches every given field
	Type string `yaml:"type"`

	Count   *int  `yaml:"count,omitempty"`
	Indices []int `yaml:"indices,omitempty"`

	// Index, Acc, Cur and Out are matched by call_contains. Absent fields
	// match anything.
	Index *int      `yaml:"index,omitempty"`
	Acc   yaml.Node `yaml:"acc"`
	Cur   yaml.Node `yaml:"cur"`
	Out   yaml.Node `yaml:"out"`
}

// Assertion type constants.
const (
	AssertCallCount    = "call_count"
	AssertCallIndices  = "call_indices"
	AssertCallContains = "call_contains"
)

// Property names.
const (
	PropLeftFold          = "left_fold"
	PropNoSeedEquivalence = "no_seed_equivalence"
	PropHoleTransparency  = "hole_transparency"
	PropMapShape          = "map_shape"
)

// Path returns the file the scenario was loaded from.
func (s *Scenario) Path() string {
	return s.path
}

// HasSeed reports whether the scenario supplies a seed.
func (s *Scenario) HasSeed() bool {
	return present(&s.Seed)
}

// present reports whether a key decoded into n. yaml.v3 leaves the node
// zero for absent keys and fills it for "key: ~".
func present(n *yaml.Node) bool {
	return n.Kind != 0
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or fails validation.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.path = path
	return s, nil
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := decodeStrict(data, &s); err != nil {
		return nil, err
	}

	if err := Validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// decodeStrict decodes a scenario document. Strict field validation catches
// typos like "assertion:" vs "assertions:".
func decodeStrict(data []byte, s *Scenario) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(s); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}
	return nil
}

// ScenarioFiles lists the .yaml and .yml files under dir, sorted by path.
func ScenarioFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Case is a scenario's inputs resolved to values.
type Case struct {
	Name     string
	Op       eval.Op
	Sequence *value.Array
	Callback value.Value
	Seed     seq.Option[value.Value]
}

// Compile resolves the scenario's inputs. resolve maps !fn names to
// callables.
func (s *Scenario) Compile(resolve value.Resolver) (*Case, error) {
	op, err := eval.ParseOp(s.Op)
	if err != nil {
		return nil, err
	}

	v, err := value.FromYAML(&s.Sequence, resolve)
	if err != nil {
		return nil, fmt.Errorf("sequence: %w", err)
	}
	arr, ok := v.(*value.Array)
	if !ok {
		return nil, fmt.Errorf("sequence: expected array, got %s", value.TypeName(v))
	}

	callback, err := value.FromYAML(&s.Callback, resolve)
	if err != nil {
		return nil, fmt.Errorf("callback: %w", err)
	}

	c := &Case{
		Name:     s.Name,
		Op:       op,
		Sequence: arr,
		Callback: callback,
		Seed:     seq.None[value.Value](),
	}
	if s.HasSeed() {
		seed, err := value.FromYAML(&s.Seed, resolve)
		if err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
		c.Seed = seq.Some(seed)
	}
	return c, nil
}

// optionalValue converts n when its key was present.
func optionalValue(n *yaml.Node, resolve value.Resolver) (value.Value, bool, error) {
	if !present(n) {
		return nil, false, nil
	}
	v, err := value.FromYAML(n, resolve)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}
