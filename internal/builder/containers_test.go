package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseContainer(t *testing.T) {
	tests := []struct {
		spelling string
		kind     string
		args     []string
	}{
		{"std::vector<int>", "vector", []string{"int"}},
		{"const std::vector<Game::Entity> &", "vector", []string{"Game::Entity"}},
		{"std::map<std::string, int>", "map", []string{"std::string", "int"}},
		{"std::unordered_map<int, float>", "unordered_map", []string{"int", "float"}},
		{"std::unordered_set<std::string>", "unordered_set", []string{"std::string"}},
		{"std::vector<std::pair<int, float>>", "vector", []string{"std::pair<int, float>"}},
	}
	for _, tt := range tests {
		kind, args, ok := parseContainer(tt.spelling)
		require.True(t, ok, tt.spelling)
		assert.Equal(t, tt.kind, kind, tt.spelling)
		assert.Equal(t, tt.args, args, tt.spelling)
	}
}

func TestParseContainerRejectsNonContainers(t *testing.T) {
	for _, spelling := range []string{
		"int",
		"Game::Entity",
		"std::string",
		"std::vector<int", // unbalanced
		"myns::vector<int>",
	} {
		_, _, ok := parseContainer(spelling)
		assert.False(t, ok, spelling)
	}
}

func TestSplitTemplateArgs(t *testing.T) {
	assert.Equal(t, []string{"int"}, splitTemplateArgs("int"))
	assert.Equal(t, []string{"std::string", "int"}, splitTemplateArgs("std::string, int"))
	assert.Equal(t,
		[]string{"std::map<int, float>", "char"},
		splitTemplateArgs("std::map<int, float>, char"))
	assert.Nil(t, splitTemplateArgs(""))
}
