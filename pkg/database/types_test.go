package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  StringArray
	}{
		{"nil", nil, nil},
		{"json array", []byte(`["w-1","w-2"]`), StringArray{"w-1", "w-2"}},
		{"empty json array", []byte(`[]`), StringArray{}},
		{"postgres literal", []byte(`{w-1,w-2}`), StringArray{"w-1", "w-2"}},
		{"postgres quoted", []byte(`{"has,comma","plain"}`), StringArray{"has,comma", "plain"}},
		{"postgres empty", []byte(`{}`), StringArray{}},
		{"bare single value", "w-1", StringArray{"w-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			require.NoError(t, a.Scan(tt.input))
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestStringArrayScanRejectsUnknownType(t *testing.T) {
	var a StringArray
	assert.Error(t, a.Scan(42))
}

func TestStringArrayValue(t *testing.T) {
	v, err := StringArray{"w-1", "w-2"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["w-1","w-2"]`, v.(string))

	// Round trip through Scan.
	var a StringArray
	require.NoError(t, a.Scan(v))
	assert.Equal(t, StringArray{"w-1", "w-2"}, a)
}
