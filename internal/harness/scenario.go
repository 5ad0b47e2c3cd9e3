package harness

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cueyaml "cuelang.org/go/encoding/yaml"
	"gopkg.in/yaml.v3"

	"github.com/roach88/timeindex/internal/cell"
	"github.com/roach88/timeindex/internal/timeindex"
)

//go:embed schema.cue
var schemaCUE string

// Scenario is a sequence of transactions against a fresh ledger.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Cells are minted at genesis, one genesis transaction each, in order.
	// A cell may take its type args from an earlier cell's out-point.
	Cells []CellSpec `yaml:"cells,omitempty"`

	// Steps are submitted in order. Accepted steps are committed.
	Steps []Step `yaml:"steps"`

	// Assertions inspect the live cells after the last step.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// CellSpec describes one cell. Named cells can be spent by later steps
// and referenced by args_from.
type CellSpec struct {
	Name     string    `yaml:"name,omitempty"`
	Capacity uint64    `yaml:"capacity,omitempty"`
	Lock     string    `yaml:"lock,omitempty"` // lock args, hex
	Type     *TypeSpec `yaml:"type,omitempty"`

	// Data is the raw payload in hex. Index is shorthand for the payload
	// [index, 12]. At most one may be set.
	Data  *string `yaml:"data,omitempty"`
	Index *int    `yaml:"index,omitempty"`
}

// TypeSpec describes a type script. Without a code hash it is a time index
// script.
type TypeSpec struct {
	Args     *string `yaml:"args,omitempty"`
	ArgsFrom string  `yaml:"args_from,omitempty"`
	CodeHash string  `yaml:"code_hash,omitempty"`
	HashType string  `yaml:"hash_type,omitempty"`
}

// Step is one transaction.
type Step struct {
	Name    string     `yaml:"name"`
	Inputs  []string   `yaml:"inputs,omitempty"`
	Outputs []CellSpec `yaml:"outputs,omitempty"`

	// Expect is "accept" or the name of the expected error kind.
	Expect string `yaml:"expect"`
}

// Assertion validates the final live-cell set.
type Assertion struct {
	// Type is one of:
	// - "live_record": Cell is live and carries a record at Index
	// - "live_count": exactly Count time index cells are live
	Type string `yaml:"type"`

	Cell  string `yaml:"cell,omitempty"`
	Index *int   `yaml:"index,omitempty"`
	Count *int   `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertLiveRecord = "live_record"
	AssertLiveCount  = "live_count"
)

// ExpectAccept is the Expect value for a step that must be accepted.
const ExpectAccept = "accept"

// LoadScenario reads, schema-checks and parses a scenario YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario schema-checks and parses scenario YAML.
// Unknown fields are rejected by both the schema and the decoder.
func ParseScenario(data []byte) (*Scenario, error) {
	if err := CheckSchema(data); err != nil {
		return nil, err
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// CheckSchema validates scenario YAML against the embedded CUE schema.
func CheckSchema(data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile scenario schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := cueyaml.Validate(data, def); err != nil {
		return fmt.Errorf("schema violation: %s", cueerrors.Details(err, nil))
	}
	return nil
}

// validateScenario checks what the schema cannot: cross references and
// field combinations.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	// Names become visible in declaration order.
	known := make(map[string]bool)
	declare := func(where string, c CellSpec) error {
		if err := validateCell(where, c, known); err != nil {
			return err
		}
		if c.Name == "" {
			return nil
		}
		if known[c.Name] {
			return fmt.Errorf("%s: duplicate cell name %q", where, c.Name)
		}
		known[c.Name] = true
		return nil
	}

	for i, c := range s.Cells {
		if err := declare(fmt.Sprintf("cells[%d]", i), c); err != nil {
			return err
		}
	}

	for i, step := range s.Steps {
		where := fmt.Sprintf("steps[%d] (%s)", i, step.Name)
		if step.Name == "" {
			return fmt.Errorf("steps[%d]: name is required", i)
		}
		if err := validateExpect(step.Expect); err != nil {
			return fmt.Errorf("%s: %w", where, err)
		}
		for _, in := range step.Inputs {
			if !known[in] {
				return fmt.Errorf("%s: unknown input cell %q", where, in)
			}
		}
		for j, out := range step.Outputs {
			if err := declare(fmt.Sprintf("%s outputs[%d]", where, j), out); err != nil {
				return err
			}
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, known); err != nil {
			return fmt.Errorf("assertions[%d]: %w", i, err)
		}
	}
	return nil
}

func validateCell(where string, c CellSpec, known map[string]bool) error {
	if c.Data != nil && c.Index != nil {
		return fmt.Errorf("%s: data and index are mutually exclusive", where)
	}
	if c.Data != nil {
		if _, err := cell.DecodeHex(*c.Data); err != nil {
			return fmt.Errorf("%s: data: %w", where, err)
		}
	}
	if c.Index != nil && (*c.Index < 0 || *c.Index > 255) {
		return fmt.Errorf("%s: index %d does not fit in a byte", where, *c.Index)
	}
	if c.Lock != "" {
		if _, err := cell.DecodeHex(c.Lock); err != nil {
			return fmt.Errorf("%s: lock: %w", where, err)
		}
	}
	if c.Type == nil {
		return nil
	}

	t := c.Type
	if t.Args != nil && t.ArgsFrom != "" {
		return fmt.Errorf("%s: type.args and type.args_from are mutually exclusive", where)
	}
	if t.Args != nil {
		if _, err := cell.DecodeHex(*t.Args); err != nil {
			return fmt.Errorf("%s: type.args: %w", where, err)
		}
	}
	if t.ArgsFrom != "" && !known[t.ArgsFrom] {
		return fmt.Errorf("%s: type.args_from references unknown cell %q", where, t.ArgsFrom)
	}
	if t.CodeHash != "" {
		if _, err := cell.ParseHash(t.CodeHash); err != nil {
			return fmt.Errorf("%s: type.code_hash: %w", where, err)
		}
	}
	if _, err := cell.ParseHashType(t.HashType); err != nil {
		return fmt.Errorf("%s: type.hash_type: %w", where, err)
	}
	return nil
}

func validateExpect(expect string) error {
	if expect == ExpectAccept {
		return nil
	}
	if _, ok := timeindex.ParseKind(expect); !ok {
		kinds := timeindex.Kinds()
		names := make([]string, len(kinds))
		for i, k := range kinds {
			names[i] = k.String()
		}
		return fmt.Errorf("expect must be %q or one of %s, got %q", ExpectAccept, strings.Join(names, ", "), expect)
	}
	return nil
}

func validateAssertion(a Assertion, known map[string]bool) error {
	switch a.Type {
	case AssertLiveRecord:
		if !known[a.Cell] {
			return fmt.Errorf("live_record: unknown cell %q", a.Cell)
		}
		if a.Index == nil {
			return fmt.Errorf("live_record: index is required")
		}
	case AssertLiveCount:
		if a.Count == nil {
			return fmt.Errorf("live_count: count is required")
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}
