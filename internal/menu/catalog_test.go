package menu

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogClosedUnderTransitions(t *testing.T) {
	c := Default()

	for _, n := range defaultNodes() {
		for input, target := range n.Transitions {
			if target == Terminate {
				continue
			}
			assert.True(t, c.Has(target), "node %s input %s targets missing node %s", n.ID, input, target)
		}
	}
}

func TestResolveUnknownNode(t *testing.T) {
	c := Default()

	_, err := c.Resolve("no_such_screen")
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestNewCatalogRejectsDanglingTransition(t *testing.T) {
	_, err := NewCatalog([]Node{
		{ID: "a", Template: "A", Transitions: map[string]string{"1": "missing"}},
	})
	require.ErrorIs(t, err, ErrUnknownNode)
}

func TestRenderSubstitutesPlaceholder(t *testing.T) {
	c := Default()

	text, err := c.Render(StateResourceList, "1. Algebra Basics\n")
	require.NoError(t, err)
	assert.Contains(t, text, "1. Algebra Basics")
	assert.NotContains(t, text, Placeholder)
}

func TestRenderIgnoresSubstitutionWithoutPlaceholder(t *testing.T) {
	c := Default()

	text, err := c.Render(StateMain, "ignored")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "Welcome to LMS USSD"))
	assert.NotContains(t, text, "ignored")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	doc := `nodes:
  - id: main
    template: "Hi\n\n1. Go\n2. Exit"
    transitions:
      "1": other
      "2": terminate
  - id: other
    template: "Other"
    transitions:
      "*": main
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	c, err := LoadFile(path)
	require.NoError(t, err)
	assert.True(t, c.Has("other"))

	n, err := c.Resolve("main")
	require.NoError(t, err)
	assert.Equal(t, "other", n.Transitions["1"])
}

func TestLoadFileRejectsDanglingTarget(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.yaml")
	doc := `nodes:
  - id: main
    template: "Hi"
    transitions:
      "1": nowhere
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := LoadFile(path)
	require.ErrorIs(t, err, ErrUnknownNode)
}
