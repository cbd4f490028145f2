package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/galaxy/internal/galaxy"
	"github.com/san-kum/galaxy/internal/viz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func field(t *testing.T, colored bool) *galaxy.Field {
	t.Helper()
	p := galaxy.DefaultParams()
	p.Count = 200
	p.Seed = 3
	p.Colored = colored
	f, err := galaxy.Generate(context.Background(), p)
	require.NoError(t, err)
	return f
}

func TestFieldToSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FieldToSVG(&buf, field(t, true), SVGOptions{Size: 256}))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, `width="256"`)
	assert.Equal(t, 200, strings.Count(out, "<circle"))
	assert.True(t, strings.HasSuffix(out, "</svg>\n"))
}

func TestFieldToSVGUncoloredIsWhite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FieldToSVG(&buf, field(t, false), SVGOptions{}))
	assert.Equal(t, 200, strings.Count(buf.String(), `fill="#ffffff"`))
}

func TestCanvasToSVG(t *testing.T) {
	c := viz.NewCanvas(4, 2)
	c.Set(0, 0)
	c.Set(7, 7)

	out := CanvasToSVG(c, 2)
	assert.Equal(t, 2, strings.Count(out, "<circle"))
	assert.Empty(t, CanvasToSVG(nil, 2))
}

func TestJSON(t *testing.T) {
	f := field(t, true)
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, f, map[string]float64{"contrast": 0.5}))

	var got ExportData
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 200, got.Count)
	assert.Len(t, got.Positions, 600)
	assert.Len(t, got.Colors, 600)
	assert.Equal(t, f.Params, got.Params)
	assert.Equal(t, 0.5, got.Metrics["contrast"])
}

func TestPLY(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PLY(&buf, field(t, true)))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, "ply", lines[0])
	assert.Contains(t, lines, "element vertex 200")
	assert.Contains(t, lines, "property uchar red")

	header := 0
	for i, l := range lines {
		if l == "end_header" {
			header = i + 1
		}
	}
	require.NotZero(t, header)
	assert.Len(t, lines[header:], 200)
	assert.Len(t, strings.Fields(lines[header]), 6)
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, "obj", field(t, false), nil)
	assert.ErrorContains(t, err, "unknown export format")
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "galaxy.PLY")
	require.NoError(t, WriteFile(path, "", field(t, false), nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ply\n"))
	assert.Equal(t, "ply", FormatFromPath(path))
}

func TestWriteFileUnknownFormatCreatesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	err := WriteFile(path, "", &galaxy.Field{}, nil)
	assert.ErrorContains(t, err, "unknown export format")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "no file should be left behind")
}
