package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/timeindex/internal/timeindex"
)

const scenarioDir = "../../testdata/scenarios"

const minimalYAML = `
name: minimal
description: one creation
cells:
  - name: funding
steps:
  - name: create
    inputs: [funding]
    outputs:
      - name: clock
        type: {args_from: funding}
        index: 0
    expect: accept
assertions:
  - {type: live_record, cell: clock, index: 0}
`

func TestParseScenario_Valid(t *testing.T) {
	s, err := ParseScenario([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "minimal", s.Name)
	require.Len(t, s.Cells, 1)
	assert.Equal(t, "funding", s.Cells[0].Name)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, []string{"funding"}, s.Steps[0].Inputs)
	require.Len(t, s.Steps[0].Outputs, 1)

	out := s.Steps[0].Outputs[0]
	require.NotNil(t, out.Type)
	assert.Equal(t, "funding", out.Type.ArgsFrom)
	require.NotNil(t, out.Index)
	assert.Equal(t, 0, *out.Index)
	assert.Equal(t, ExpectAccept, s.Steps[0].Expect)

	require.Len(t, s.Assertions, 1)
	assert.Equal(t, AssertLiveRecord, s.Assertions[0].Type)
}

func TestParseScenario_SchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown top-level field",
			yaml: "name: x\ndescription: d\nsteps: []\nassertion: []\n",
		},
		{
			name: "unknown cell field",
			yaml: "name: x\ndescription: d\ncells:\n  - name: a\n    colour: red\nsteps: []\n",
		},
		{
			name: "bad expect",
			yaml: "name: x\ndescription: d\nsteps:\n  - name: s\n    expect: maybe\n",
		},
		{
			name: "odd-length hex",
			yaml: "name: x\ndescription: d\ncells:\n  - data: \"0xabc\"\nsteps: []\n",
		},
		{
			name: "index too large",
			yaml: "name: x\ndescription: d\ncells:\n  - index: 256\nsteps: []\n",
		},
		{
			name: "bad assertion type",
			yaml: "name: x\ndescription: d\nsteps: []\nassertions:\n  - type: trace_count\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckSchema([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "schema violation")
		})
	}
}

func TestParseScenario_MissingDescription(t *testing.T) {
	_, err := ParseScenario([]byte("name: x\nsteps:\n  - name: s\n    expect: accept\n"))
	require.Error(t, err)
}

func TestParseScenario_CrossReferences(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "no steps",
			yaml:    "name: x\ndescription: d\nsteps: []\n",
			wantErr: "steps list is required",
		},
		{
			name: "unknown input",
			yaml: `
name: x
description: d
steps:
  - name: s
    inputs: [ghost]
    expect: accept
`,
			wantErr: `unknown input cell "ghost"`,
		},
		{
			name: "args_from forward reference",
			yaml: `
name: x
description: d
cells:
  - name: a
    type: {args_from: b}
  - name: b
steps:
  - name: s
    expect: accept
`,
			wantErr: `references unknown cell "b"`,
		},
		{
			name: "duplicate name",
			yaml: `
name: x
description: d
cells:
  - name: a
steps:
  - name: s
    outputs:
      - name: a
    expect: accept
`,
			wantErr: `duplicate cell name "a"`,
		},
		{
			name: "data and index",
			yaml: `
name: x
description: d
cells:
  - data: "0x000c"
    index: 0
steps:
  - name: s
    expect: accept
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "args and args_from",
			yaml: `
name: x
description: d
cells:
  - name: a
  - type: {args: "0x", args_from: a}
steps:
  - name: s
    expect: accept
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "short code hash",
			yaml: `
name: x
description: d
cells:
  - type: {code_hash: "0x0102"}
steps:
  - name: s
    expect: accept
`,
			wantErr: "type.code_hash",
		},
		{
			name: "live_record without index",
			yaml: `
name: x
description: d
cells:
  - name: a
steps:
  - name: s
    expect: accept
assertions:
  - {type: live_record, cell: a}
`,
			wantErr: "index is required",
		},
		{
			name: "live_count without count",
			yaml: `
name: x
description: d
steps:
  - name: s
    expect: accept
assertions:
  - {type: live_count}
`,
			wantErr: "count is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateExpect_ListsKinds(t *testing.T) {
	assert.NoError(t, validateExpect(ExpectAccept))
	assert.NoError(t, validateExpect("InvalidTransition"))

	err := validateExpect("maybe")
	require.Error(t, err)
	for _, k := range timeindex.Kinds() {
		assert.Contains(t, err.Error(), k.String())
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalYAML), 0644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "minimal", s.Name)
}

func TestLoadScenario_ShippedScenarios(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join(scenarioDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			s, err := LoadScenario(path)
			require.NoError(t, err)
			assert.Equal(t, filepath.Base(path), s.Name+".yaml", "scenario name should match its file name")
		})
	}
}
