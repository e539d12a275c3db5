package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wukongiii/embindgen/internal/builder"
	"github.com/wukongiii/embindgen/internal/decl"
	"github.com/wukongiii/embindgen/internal/diag"
	"github.com/wukongiii/embindgen/internal/model"
	"github.com/wukongiii/embindgen/internal/style"
)

// gameFile is a declaration dump covering the representative surface: an
// overloaded free function, a value class with an equality operator, a
// class with a nested enum and overloaded methods, a derived class with
// static members, STL containers and a namespace constant.
func gameFile() *decl.File {
	return &decl.File{
		Header: "game/engine.h",
		Decls: []decl.Decl{
			{Kind: decl.KindNamespace, Name: "Game", Children: []decl.Decl{
				{Kind: decl.KindVariable, Name: "MaxPlayers", Type: "int", Const: true, Value: "8"},
				{Kind: decl.KindFunction, Name: "clamp", ReturnType: "float", Params: []string{"float", "float", "float"}},
				{Kind: decl.KindFunction, Name: "clamp", ReturnType: "double", Params: []string{"double", "double", "double"}},
				{Kind: decl.KindClass, Name: "Vector2", Definition: true, Children: []decl.Decl{
					{Kind: decl.KindConstructor, Visibility: decl.Public},
					{Kind: decl.KindConstructor, Visibility: decl.Public, Params: []string{"float", "float"}},
					{Kind: decl.KindField, Name: "x", Visibility: decl.Public, Type: "float"},
					{Kind: decl.KindField, Name: "y", Visibility: decl.Public, Type: "float"},
					{Kind: decl.KindMethod, Name: "length", Visibility: decl.Public, ReturnType: "float", Const: true},
					{Kind: decl.KindMethod, Name: "operator==", Visibility: decl.Public, ReturnType: "bool", Params: []string{"const Game::Vector2 &"}, Const: true},
				}},
				{Kind: decl.KindClass, Name: "Entity", Definition: true, Children: []decl.Decl{
					{Kind: decl.KindConstructor, Visibility: decl.Public, Params: []string{"const std::string &"}},
					{Kind: decl.KindEnum, Name: "State", Visibility: decl.Public, Underlying: "int", Children: []decl.Decl{
						{Kind: decl.KindEnumValue, Name: "Idle", Value: "0"},
						{Kind: decl.KindEnumValue, Name: "Active", Value: "1"},
					}},
					{Kind: decl.KindMethod, Name: "move", Visibility: decl.Public, ReturnType: "void", Params: []string{"const Game::Vector2 &"}},
					{Kind: decl.KindMethod, Name: "move", Visibility: decl.Public, ReturnType: "void", Params: []string{"float", "float"}},
				}},
				{Kind: decl.KindClass, Name: "World", BaseClass: "Game::Entity", Definition: true, Children: []decl.Decl{
					{Kind: decl.KindConstructor, Visibility: decl.Public},
					{Kind: decl.KindMethod, Name: "entities", Visibility: decl.Public, ReturnType: "std::vector<Game::Entity>", Const: true},
				{Kind: decl.KindMethod, Name: "visible", Visibility: decl.Public, ReturnType: "std::vector<Game::Entity>", Const: true},
					{Kind: decl.KindMethod, Name: "tags", Visibility: decl.Public, ReturnType: "std::map<std::string, int>", Const: true},
					{Kind: decl.KindMethod, Name: "spawn", Visibility: decl.Public, Static: true, ReturnType: "Game::Entity", Params: []string{"const std::string &"}},
				}},
			}},
		},
	}
}

func buildGame(t *testing.T) (*model.Project, *diag.Report, *style.Sheet) {
	t.Helper()
	sheet := style.Default()
	b := builder.New("GameModule", nil)
	require.NoError(t, b.AddFile(gameFile()))
	p, report, err := b.Build(sheet.Mangling)
	require.NoError(t, err)
	return p, report, sheet
}

func renderBackend(t *testing.T, backend string) string {
	t.Helper()
	p, report, sheet := buildGame(t)
	ctx, err := sheet.Resolve(backend, p.Kinds())
	require.NoError(t, err)
	out, err := Render(p, report, ctx)
	require.NoError(t, err)
	return out
}

func TestRenderEmbind(t *testing.T) {
	out := renderBackend(t, style.BackendEmbind)

	assert.Contains(t, out, `#include <emscripten/bind.h>`)
	assert.Contains(t, out, `#include "game/engine.h"`)
	assert.Contains(t, out, `EMSCRIPTEN_BINDINGS(GameModule) {`)

	// containers registered first, registry order, exactly once
	assert.Contains(t, out, `register_vector<Game::Entity>("STL__V_GameEntity");`)
	assert.Contains(t, out, `register_map<std::string, int>("STL__M_StringInt");`)
	assert.Equal(t, 1, strings.Count(out, "register_vector"))
	assert.Equal(t, 1, strings.Count(out, "register_map"))

	assert.Contains(t, out, `{ using namespace Game;`)
	assert.Contains(t, out, `} // namespace Game`)
	assert.Contains(t, out, `constant("MaxPlayers", Game::MaxPlayers);`)

	// overloaded free functions select their overload explicitly
	assert.Contains(t, out, `function("N_Game__clamp", select_overload<float(float, float, float)>(&Game::clamp));`)
	assert.Contains(t, out, `function("N_Game__clamp", select_overload<double(double, double, double)>(&Game::clamp));`)

	assert.Contains(t, out, `class_<Game::Vector2>("N_Game__C_Vector2")`)
	assert.Contains(t, out, `.constructor<>()`)
	assert.Contains(t, out, `.constructor<float, float>()`)
	assert.Contains(t, out, `.property("x", &Game::Vector2::x, return_value_policy::reference())`)
	assert.Contains(t, out, `.function("length", &Game::Vector2::length)`)
	assert.Contains(t, out, `.function("_equals", &Game::Vector2::operator==)`)

	// nested enum registered under its full identity
	assert.Contains(t, out, `enum_<Game::Entity::State>("N_Game__C_Entity__E_State")`)
	assert.Contains(t, out, `.value("Idle", Game::Entity::State::Idle)`)

	assert.Contains(t, out, `.function("move", select_overload<void(const Game::Vector2 &)>(&Game::Entity::move))`)
	assert.Contains(t, out, `.function("move", select_overload<void(float, float)>(&Game::Entity::move))`)

	assert.Contains(t, out, `class_<Game::World, base<Game::Entity>>("N_Game__C_World")`)
	assert.Contains(t, out, `.class_function("spawn", &Game::World::spawn)`)
}

// Constructs dropped from the model still surface in the native document as
// commented-out lines carrying the reason.
func TestRenderEmbindOmissionComments(t *testing.T) {
	sheet := style.Default()
	b := builder.New("GameModule", nil)
	require.NoError(t, b.AddFile(&decl.File{Header: "game/engine.h", Decls: []decl.Decl{
		{Kind: decl.KindNamespace, Name: "Game", Children: []decl.Decl{
			{Kind: decl.KindClass, Name: "Box", Template: true, Definition: true},
			{Kind: decl.KindFunction, Name: "mutate", ReturnType: "void", Params: []string{"Game::Entity &"}},
			{Kind: decl.KindFunction, Name: "clamp", ReturnType: "float", Params: []string{"float"}},
		}},
	}}))
	p, report, err := b.Build(sheet.Mangling)
	require.NoError(t, err)

	ctx, err := sheet.Resolve(style.BackendEmbind, p.Kinds())
	require.NoError(t, err)
	out, err := Render(p, report, ctx)
	require.NoError(t, err)

	assert.Contains(t, out, `// Ignored due to: template classes are not supported: Game::Box`)
	assert.Contains(t, out, `// Ignored due to: non-const reference parameter is not supported: Game::mutate`)
	assert.NotContains(t, out, `class_<Game::Box>`)
	assert.NotContains(t, out, `&Game::mutate`)
	assert.Contains(t, out, `function("N_Game__clamp", &Game::clamp);`)
}

func TestRenderDTS(t *testing.T) {
	out := renderBackend(t, style.BackendDTS)

	assert.Contains(t, out, `export interface GameModuleExports {`)
	assert.Contains(t, out, `GameEntityList: typeof GameModule.prototype.STL__V_GameEntity;`)
	assert.Contains(t, out, `StringIntMap: typeof GameModule.prototype.STL__M_StringInt;`)

	// constants hoist to the top level under their plain name
	assert.Contains(t, out, `MaxPlayers: typeof GameModule.prototype.MaxPlayers;`)

	assert.Contains(t, out, `Game: {`)
	assert.Contains(t, out, `Vector2: typeof GameModule.prototype.N_Game__C_Vector2;`)

	// one declaration per overload bucket
	assert.Equal(t, 1, strings.Count(out, "clamp:"))
	assert.Contains(t, out, `clamp: typeof GameModule.prototype.N_Game__clamp;`)

	// the nested enum projects back under its class
	assert.Contains(t, out, `Entity: typeof GameModule.prototype.N_Game__C_Entity & {`)
	assert.Contains(t, out, `State: typeof GameModule.prototype.N_Game__C_Entity__E_State;`)
}

func TestRenderPreJS(t *testing.T) {
	out := renderBackend(t, style.BackendPreJS)

	assert.Contains(t, out, `Module['onRuntimeInitialized'] = function() {`)
	assert.Contains(t, out, `Module['GameModule'] = {`)

	assert.Contains(t, out, `GameEntityList: Module['STL__V_GameEntity'],`)
	assert.Contains(t, out, `MaxPlayers: Module['MaxPlayers'],`)
	assert.Contains(t, out, `Game: {`)
	assert.Contains(t, out, `clamp: Module['N_Game__clamp'],`)
	assert.Contains(t, out, `Vector2: Module['N_Game__C_Vector2'],`)
	assert.Contains(t, out, `Entity: Object.assign(Module['N_Game__C_Entity'], {`)
	assert.Contains(t, out, `State: Module['N_Game__C_Entity__E_State'],`)
	assert.Contains(t, out, `}),`)
	assert.Contains(t, out, `World: Module['N_Game__C_World'],`)
}

// Every binding-table key a projection references must be one the native
// registration actually creates.
func TestBackendsAgreeOnMangledNames(t *testing.T) {
	p, report, sheet := buildGame(t)

	docs := make(map[string]string, 3)
	for _, backend := range []string{style.BackendEmbind, style.BackendDTS, style.BackendPreJS} {
		ctx, err := sheet.Resolve(backend, p.Kinds())
		require.NoError(t, err)
		out, err := Render(p, report, ctx)
		require.NoError(t, err)
		docs[backend] = out
	}

	var keys []string
	p.Walk(func(n *model.Base) {
		switch n.Kind {
		case model.KindClass, model.KindStruct, model.KindEnum,
			model.KindFunction, model.KindContainer:
			keys = append(keys, n.MangledName)
		}
	})
	require.NotEmpty(t, keys)

	for backend, out := range docs {
		for _, key := range keys {
			assert.Contains(t, out, key, "backend %s is missing binding key %s", backend)
		}
	}
}

func TestRenderRejectsUnknownBackend(t *testing.T) {
	p, report, _ := buildGame(t)
	_, err := Render(p, report, &style.Context{Backend: "wasm"})
	require.Error(t, err)
}
