package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wukongiii/embindgen/internal/model"
)

func allKinds() map[model.Kind]bool {
	return map[model.Kind]bool{
		model.KindProject:        true,
		model.KindNamespace:      true,
		model.KindClass:          true,
		model.KindStruct:         true,
		model.KindEnum:           true,
		model.KindEnumValue:      true,
		model.KindFunction:       true,
		model.KindMethod:         true,
		model.KindStaticMethod:   true,
		model.KindConstructor:    true,
		model.KindProperty:       true,
		model.KindStaticProperty: true,
		model.KindConstant:       true,
		model.KindContainer:      true,
	}
}

func TestDefaultResolvesAllBackends(t *testing.T) {
	for _, backend := range []string{BackendEmbind, BackendDTS, BackendPreJS} {
		ctx, err := Default().Resolve(backend, allKinds())
		require.NoError(t, err, backend)
		assert.Equal(t, backend, ctx.Backend)
		assert.NotNil(t, ctx.Rule(model.KindClass), backend)
	}
}

func TestResolveUnknownBackend(t *testing.T) {
	_, err := Default().Resolve("wasm", allKinds())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestResolveMissingRule(t *testing.T) {
	s := Default()
	delete(s.Styles[BackendEmbind], model.KindEnum)

	_, err := s.Resolve(BackendEmbind, allKinds())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	// absent kinds need no rule
	present := allKinds()
	delete(present, model.KindEnum)
	_, err = s.Resolve(BackendEmbind, present)
	assert.NoError(t, err)
}

func TestResolveMissingVariant(t *testing.T) {
	s := Default()
	s.Styles[BackendEmbind][model.KindClass] = Rule{Template: `{{.Name}}`}

	_, err := s.Resolve(BackendEmbind, allKinds())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
	assert.Contains(t, err.Error(), "derived")
}

func TestResolveBadTemplate(t *testing.T) {
	s := Default()
	s.Styles[BackendDTS][model.KindFunction] = Rule{Template: `{{.Name`}

	_, err := s.Resolve(BackendDTS, allKinds())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestExecuteUnknownVariant(t *testing.T) {
	ctx, err := Default().Resolve(BackendEmbind, allKinds())
	require.NoError(t, err)

	_, err = ctx.Rule(model.KindConstant).Execute("open", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestIndent(t *testing.T) {
	ctx, err := Default().Resolve(BackendEmbind, map[model.Kind]bool{model.KindProject: true})
	require.NoError(t, err)
	assert.Equal(t, "", ctx.Indent(0))
	assert.Equal(t, "        ", ctx.Indent(2))
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
indent_space: 2
mangling:
  separator: "$"
styles:
  embind:
    constant:
      suffix: "; // generated"
`), 0o644))

	s := Default()
	require.NoError(t, s.LoadFile(path))

	assert.Equal(t, 2, s.IndentSpace)
	assert.Equal(t, "$", s.Mangling.Separator)
	assert.Equal(t, "::", s.Mangling.FullNameSeparator) // untouched default
	assert.Equal(t, "N_", s.Mangling.Prefixes[string(model.KindNamespace)])

	rule := s.Styles[BackendEmbind][model.KindConstant]
	assert.Equal(t, "; // generated", rule.Suffix)
	assert.Equal(t, "constant", rule.TaggingType) // default survives the merge
	assert.NotEmpty(t, s.Styles[BackendDTS])
}

func TestLoadFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("styles: [broken"), 0o644))

	err := Default().LoadFile(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))
}

func TestSharedManglingAcrossBackends(t *testing.T) {
	s := Default()
	s.Mangling.Separator = "$$"

	for _, backend := range []string{BackendEmbind, BackendDTS, BackendPreJS} {
		ctx, err := s.Resolve(backend, map[model.Kind]bool{model.KindProject: true})
		require.NoError(t, err)
		assert.Equal(t, "$$", ctx.Mangling.Separator, backend)
	}
}
