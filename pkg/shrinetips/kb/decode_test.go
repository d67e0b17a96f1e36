package kb_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrinetips/shrinetips-go/pkg/shrinetips/kb"
)

const sampleJSON = `[7, ["Effect A", "$3Boost", "foo #%"], ["Effect B", "Bar", ["baz", "type+sword"]]]`

func TestDecodeJSON(t *testing.T) {
	v, err := kb.DecodeJSON([]byte(sampleJSON))
	require.NoError(t, err)

	require.Equal(t, kb.Array, v.Kind())
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, 7, v.Index(0).AsInt())
	assert.Equal(t, "Effect A", v.Index(1).Index(0).AsString())
	assert.Equal(t, "type+sword", v.Index(2).Index(2).Index(1).AsString())
}

func TestDecodeYAML(t *testing.T) {
	data := []byte(`
- 7
- ["Effect A", "$3Boost", "foo #%"]
- - Effect B
  - Bar
  - [baz, type+sword]
`)
	v, err := kb.DecodeYAML(data)
	require.NoError(t, err)

	fromJSON, err := kb.DecodeJSON([]byte(sampleJSON))
	require.NoError(t, err)
	assert.Equal(t, fromJSON.String(), v.String())
}

func TestDecode_Sniff(t *testing.T) {
	v, err := kb.Decode([]byte("  \n"+sampleJSON), kb.FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 7, v.Index(0).AsInt())

	v, err = kb.Decode([]byte("- 3\n- [a, b, c]\n"), kb.FormatAuto)
	require.NoError(t, err)
	assert.Equal(t, 3, v.Index(0).AsInt())
}

func TestDecode_Empty(t *testing.T) {
	for _, f := range []kb.Format{kb.FormatAuto, kb.FormatJSON, kb.FormatYAML} {
		_, err := kb.Decode([]byte("  "), f)
		assert.True(t, errors.Is(err, kb.ErrEmptyPayload), "format %d", f)
	}
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := kb.DecodeJSON([]byte(`[7, ["unterminated"`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON")
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want kb.Format
	}{
		{"shrines.js", kb.FormatJSON},
		{"shrines.JSON", kb.FormatJSON},
		{"catalogue.yaml", kb.FormatYAML},
		{"catalogue.yml", kb.FormatYAML},
		{"catalogue", kb.FormatAuto},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, kb.FormatFromPath(tt.path))
		})
	}
}

func TestValue_Accessors(t *testing.T) {
	v := kb.Arr(kb.Str("12"), kb.Num(3.9), kb.Boolean(true), kb.Obj(map[string]kb.Value{"b": kb.Int(2), "a": kb.Int(1)}))

	assert.Equal(t, 12, v.Index(0).AsInt())
	assert.Equal(t, 3, v.Index(1).AsInt())
	assert.True(t, v.Index(2).AsBool())
	assert.Equal(t, []string{"a", "b"}, v.Index(3).Keys())
	assert.Equal(t, 2, v.Index(3).Field("b").AsInt())

	// Out of range and wrong kinds degrade to zero values.
	assert.Equal(t, kb.Null, v.Index(10).Kind())
	assert.Equal(t, "", v.Index(1).AsString())
	assert.Equal(t, 0, kb.Str("x").Len())
	assert.Equal(t, `["12",3.9,true,{"a":1,"b":2}]`, v.String())
}
