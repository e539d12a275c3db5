package model

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func node(kind Kind, name string, parent *Base) Base {
	return Base{Kind: kind, Name: name, TaggingName: name, Parent: parent}
}

// gameProject builds the Game::Vector2 tree by hand: a namespace with a
// class carrying a constructor, a method and an equality operator, plus a
// nested enum hoisted into the namespace scope.
func gameProject() *Project {
	p := &Project{Base: node(KindProject, "GameModule", nil)}

	game := &Namespace{Base: node(KindNamespace, "Game", &p.Base)}
	p.Namespaces = append(p.Namespaces, game)

	vec := &Class{Base: node(KindClass, "Vector2", &game.Base), Defined: true}
	vec.Constructors = append(vec.Constructors, &Callable{
		Base:   Base{Kind: KindConstructor, Parent: &vec.Base},
		Params: []string{"float", "float"},
	})
	vec.Methods = append(vec.Methods,
		&Callable{
			Base:       node(KindMethod, "length", &vec.Base),
			ReturnType: "float",
			ConstSelf:  true,
		},
		&Callable{
			Base: Base{
				Kind:        KindMethod,
				Name:        "operator==",
				TaggingName: TaggingNameFor("operator=="),
				Parent:      &vec.Base,
			},
			Params:     []string{"const Game::Vector2 &"},
			ReturnType: "bool",
			ConstSelf:  true,
		},
	)
	game.Classes = append(game.Classes, vec)

	// nested enum: contained by the namespace scope, identity under the class
	state := &Enum{Base: node(KindEnum, "State", &vec.Base), Underlying: "int"}
	state.Values = append(state.Values, &EnumValue{Base: node(KindEnumValue, "Idle", &state.Base), Literal: "0"})
	game.Enums = append(game.Enums, state)

	return p
}

func TestDefaultManglingFold(t *testing.T) {
	p := gameProject()
	require.NoError(t, DefaultMangling().Apply(p))

	game := p.Namespaces[0]
	assert.Equal(t, "Game", game.FullName)
	assert.Equal(t, "N_Game", game.MangledName)

	vec := game.Classes[0]
	assert.Equal(t, "Game::Vector2", vec.FullName)
	assert.Equal(t, "N_Game__C_Vector2", vec.MangledName)

	length := vec.Methods[0]
	assert.Equal(t, "Game::Vector2::length", length.FullName)
	assert.Equal(t, "N_Game__C_Vector2__length", length.MangledName)

	eq := vec.Methods[1]
	assert.Equal(t, "Game::Vector2::operator==", eq.FullName)
	assert.Equal(t, "N_Game__C_Vector2___equals", eq.MangledName)
}

func TestManglingConstructorSharesClassIdentity(t *testing.T) {
	p := gameProject()
	require.NoError(t, DefaultMangling().Apply(p))

	ctor := p.Namespaces[0].Classes[0].Constructors[0]
	assert.Equal(t, "Game::Vector2", ctor.FullName)
	assert.Equal(t, "N_Game__C_Vector2", ctor.MangledName)
}

func TestManglingHoistedEnumKeepsParentChain(t *testing.T) {
	p := gameProject()
	require.NoError(t, DefaultMangling().Apply(p))

	state := p.Namespaces[0].Enums[0]
	assert.Equal(t, "Game::Vector2::State", state.FullName)
	assert.Equal(t, "N_Game__C_Vector2__E_State", state.MangledName)
	assert.Equal(t, "Game::Vector2::State::Idle", state.Values[0].FullName)
}

func TestManglingAssignsHoistedEnumBeforeItsClass(t *testing.T) {
	// Enums sit before classes in a scope's walk order, so a hoisted enum
	// is reached before the class that owns its identity.
	p := &Project{Base: node(KindProject, "GameModule", nil)}
	game := &Namespace{Base: node(KindNamespace, "Game", &p.Base)}
	p.Namespaces = append(p.Namespaces, game)

	entity := &Class{Base: node(KindClass, "Entity", &game.Base), Defined: true}
	state := &Enum{Base: node(KindEnum, "State", &entity.Base), Underlying: "int"}
	game.Enums = append(game.Enums, state)
	game.Classes = append(game.Classes, entity)

	require.NoError(t, DefaultMangling().Apply(p))
	assert.Equal(t, "Game::Entity::State", state.FullName)
	assert.Equal(t, "N_Game__C_Entity__E_State", state.MangledName)
	assert.Equal(t, "N_Game__C_Entity", entity.MangledName)
}

func TestManglingSameNamedNestedEnumsStayDistinct(t *testing.T) {
	p := &Project{Base: node(KindProject, "GameModule", nil)}
	game := &Namespace{Base: node(KindNamespace, "Game", &p.Base)}
	p.Namespaces = append(p.Namespaces, game)

	for _, name := range []string{"Entity", "World"} {
		c := &Class{Base: node(KindClass, name, &game.Base), Defined: true}
		e := &Enum{Base: node(KindEnum, "State", &c.Base), Underlying: "int"}
		game.Enums = append(game.Enums, e)
		game.Classes = append(game.Classes, c)
	}

	require.NoError(t, DefaultMangling().Apply(p))
	assert.Equal(t, "N_Game__C_Entity__E_State", game.Enums[0].MangledName)
	assert.Equal(t, "N_Game__C_World__E_State", game.Enums[1].MangledName)
}

func TestManglingDeterministic(t *testing.T) {
	a, b := gameProject(), gameProject()
	require.NoError(t, DefaultMangling().Apply(a))
	require.NoError(t, DefaultMangling().Apply(b))

	var names, again []string
	a.Walk(func(n *Base) { names = append(names, n.MangledName) })
	b.Walk(func(n *Base) { again = append(again, n.MangledName) })
	assert.Equal(t, names, again)
}

func TestManglingCollisionIsFatal(t *testing.T) {
	p := &Project{Base: node(KindProject, "M", nil)}

	outer := &Namespace{Base: node(KindNamespace, "A", &p.Base)}
	inner := &Class{Base: node(KindClass, "B", &outer.Base), Defined: true}
	outer.Classes = append(outer.Classes, inner)
	p.Namespaces = append(p.Namespaces, outer)

	// distinct entity whose flat name folds onto the nested one
	flat := &Class{Base: node(KindClass, "A__B", &p.Base), Defined: true}
	p.Classes = append(p.Classes, flat)

	m := DefaultMangling()
	m.Prefixes = map[string]string{} // no kind prefixes, names collide

	err := m.Apply(p)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIdentifierCollision))
}

func TestManglingCustomTemplate(t *testing.T) {
	p := gameProject()
	m := DefaultMangling()
	m.Separator = "$"
	m.Template = "{{.ParentMangled}}{{.Sep}}{{.Name}}"
	require.NoError(t, m.Apply(p))

	assert.Equal(t, "Game$Vector2$length", p.Namespaces[0].Classes[0].Methods[0].MangledName)
}

func TestTaggingNameFor(t *testing.T) {
	assert.Equal(t, "_equals", TaggingNameFor("operator=="))
	assert.Equal(t, "_plus_assign", TaggingNameFor("operator+="))
	assert.Equal(t, "_subscript", TaggingNameFor("operator[]"))
	assert.Equal(t, "length", TaggingNameFor("length"))
}
