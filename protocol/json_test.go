package protocol

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"
)

func archiveFiles(t *testing.T, path string) map[string]string {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err)
	files := make(map[string]string, len(ar.Files))
	for _, f := range ar.Files {
		files[f.Name] = strings.TrimSpace(string(f.Data))
	}
	return files
}

func TestDecodeSelectionRangeParamsGolden(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("testdata", "decode", "*.txtar"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".txtar")
		t.Run(name, func(t *testing.T) {
			files := archiveFiles(t, path)
			input, ok := files["input.json"]
			require.True(t, ok, "archive has no input.json")

			p, err := DecodeSelectionRangeParams([]byte(input))

			if want, ok := files["error"]; ok {
				require.Error(t, err)
				assert.Nil(t, p)
				assert.True(t, errors.Is(err, ErrInvalidArgument))
				for _, field := range strings.Fields(want) {
					assert.Contains(t, err.Error(), field)
				}
				return
			}

			require.NoError(t, err)
			assert.Equal(t, files["want"], p.String())
		})
	}
}

func TestSelectionRangeParamsMarshalJSON(t *testing.T) {
	p := mustParams(t, "file:///a.ts", Position{Line: 0, Character: 2})

	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"textDocument":{"uri":"file:///a.ts"},"positions":[{"line":0,"character":2}]}`, string(data))

	empty := mustParams(t, "file:///a.ts")
	data, err = json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"textDocument":{"uri":"file:///a.ts"},"positions":[]}`, string(data))
}

func TestSelectionRangeParamsJSONKeepsEquality(t *testing.T) {
	p := mustParams(t, "file:///b.go", Position{Line: 4, Character: 1}, Position{Line: 9, Character: 0})

	data, err := json.Marshal(p)
	require.NoError(t, err)

	decoded, err := DecodeSelectionRangeParams(data)
	require.NoError(t, err)
	assert.True(t, p.Equal(decoded))
	assert.Equal(t, p.HashCode(), decoded.HashCode())
}

func TestUnmarshalJSONFailureLeavesReceiver(t *testing.T) {
	p := mustParams(t, "file:///a.ts", Position{Line: 0, Character: 2})
	before := p.String()

	err := json.Unmarshal([]byte(`{"textDocument":{"uri":"file:///other.ts"}}`), p)
	require.Error(t, err)
	assert.Equal(t, before, p.String())
}

func TestDecodeSelectionRangeParamsSyntaxError(t *testing.T) {
	_, err := DecodeSelectionRangeParams([]byte(`{"textDocument":`))
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidArgument))
}

func TestDecodeSelectionRanges(t *testing.T) {
	data := []byte(`[
		{"range":{"start":{"line":1,"character":4},"end":{"line":1,"character":9}},
		 "parent":{"range":{"start":{"line":1,"character":0},"end":{"line":2,"character":0}}}},
		{"range":{"start":{"line":5,"character":0},"end":{"line":5,"character":3}}}
	]`)

	got, err := DecodeSelectionRanges(data)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, []Range{
		{Start: Position{Line: 1, Character: 4}, End: Position{Line: 1, Character: 9}},
		{Start: Position{Line: 1, Character: 0}, End: Position{Line: 2, Character: 0}},
	}, got[0].Chain())
	assert.Nil(t, got[1].Parent)
	assert.NoError(t, got[0].Validate())
}

func TestDecodeSelectionRangesNull(t *testing.T) {
	got, err := DecodeSelectionRanges([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDecodeSelectionRangesMissingRange(t *testing.T) {
	_, err := DecodeSelectionRanges([]byte(`[{"parent":null}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.Contains(t, err.Error(), "range")
}

func TestDecodeSelectionRangesIncompleteRange(t *testing.T) {
	tests := []struct {
		name  string
		input string
		field string
	}{
		{"empty range", `[{"range":{}}]`, "start"},
		{"no end", `[{"range":{"start":{"line":1,"character":0}}}]`, "end"},
		{"null end", `[{"range":{"start":{"line":1,"character":0},"end":null}}]`, "end"},
		{"parent without character", `[{"range":{"start":{"line":1,"character":0},"end":{"line":1,"character":2}},
			"parent":{"range":{"start":{"line":0},"end":{"line":2,"character":0}}}}]`, "character"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSelectionRanges([]byte(tt.input))
			require.Error(t, err)
			assert.Nil(t, got)
			assert.True(t, errors.Is(err, ErrInvalidArgument))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestPositionUnmarshalJSON(t *testing.T) {
	var p Position
	require.NoError(t, json.Unmarshal([]byte(`{"line":3,"character":7}`), &p))
	assert.Equal(t, Position{Line: 3, Character: 7}, p)

	err := json.Unmarshal([]byte(`{"line":3}`), &p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "character")
	assert.Equal(t, Position{Line: 3, Character: 7}, p)
}
