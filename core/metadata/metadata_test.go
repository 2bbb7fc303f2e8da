package metadata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pcodekit/pcodekit/core/typesys"
)

const bannerJSON = `{
  "qualifiedName": "UI:Banner",
  "baseClass": "UI:BaseBanner",
  "methods": [
    {
      "name": "Show",
      "returns": "boolean",
      "visibility": "public",
      "parameters": [{"name": "&msg", "type": "string"}]
    }
  ],
  "properties": [
    {"name": "Title", "type": "string"},
    {"name": "Width", "type": "integer", "readonly": true}
  ]
}`

const baseBannerJSON = `{
  "qualifiedName": "UI:BaseBanner",
  "methods": [{"name": "Hide"}]
}`

const fieldsJSON = `{
  "EMPLID": "string",
  "HEADCOUNT": "integer"
}`

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestDirResolverLoadsClasses(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"UI.Banner.json":     bannerJSON,
		"UI.BaseBanner.json": baseBannerJSON,
		"fields.json":        fieldsJSON,
	})

	r, err := NewDirResolver(dir)
	require.NoError(t, err)

	meta := r.GetTypeMetadata("ui:banner") // case-insensitive
	require.NotNil(t, meta)
	assert.Equal(t, "UI:BaseBanner", meta.BaseClass)

	show := meta.FindMethod("SHOW")
	require.NotNil(t, show)
	assert.Equal(t, typesys.TypeBoolean, show.Return)
	require.Len(t, show.Parameters, 1)
	assert.Equal(t, typesys.TypeString, show.Parameters[0].Type)

	width := meta.FindProperty("width")
	require.NotNil(t, width)
	assert.True(t, width.ReadOnly)
	assert.Equal(t, typesys.TypeInteger, width.Type)

	assert.Nil(t, r.GetTypeMetadata("UI:Missing"))
}

func TestDirResolverFieldTypes(t *testing.T) {
	dir := writeDir(t, map[string]string{"fields.json": fieldsJSON})

	r, err := NewDirResolver(dir)
	require.NoError(t, err)

	assert.Equal(t, typesys.TypeString, r.GetFieldType("emplid"))
	assert.Equal(t, typesys.TypeInteger, r.GetFieldType("HEADCOUNT"))
	assert.Nil(t, r.GetFieldType("NO_SUCH_FIELD"))
}

func TestDirResolverRejectsInvalidFile(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"bad.json": `{"methods": []}`, // missing qualifiedName
	})

	_, err := NewDirResolver(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.json")
}

func TestDirResolverRejectsUnknownKeys(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"typo.json": `{"qualifiedName": "A:B", "methodz": []}`,
	})

	_, err := NewDirResolver(dir)
	require.Error(t, err)
}

func TestSnapshotReused(t *testing.T) {
	dir := writeDir(t, map[string]string{"UI.Banner.json": bannerJSON})

	_, err := NewDirResolver(dir)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(dir, snapshotFileName))

	// with the snapshot present the JSON files are no longer needed
	require.NoError(t, os.Remove(filepath.Join(dir, "UI.Banner.json")))

	r, err := NewDirResolver(dir)
	require.NoError(t, err)
	assert.NotNil(t, r.GetTypeMetadata("UI:Banner"))
}

func TestTypeFromString(t *testing.T) {
	tests := []struct {
		input string
		want  *typesys.TypeInfo
	}{
		{"string", typesys.TypeString},
		{"Integer", typesys.TypeInteger},
		{"float", typesys.TypeNumber},
		{"any", typesys.TypeAny},
		{"", typesys.TypeAny},
		{"array of string", typesys.NewArray(1, typesys.TypeString)},
		{"array2 of number", typesys.NewArray(2, typesys.TypeNumber)},
		{"array", typesys.NewArray(1, nil)},
		{"PKG:SUB:Helper", typesys.NewAppClass("PKG:SUB:Helper")},
		{"Record", typesys.NewBuiltinObject("Record")},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := TypeFromString(tt.input)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}
