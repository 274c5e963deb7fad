package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "data-dir", "json"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestRootCmd_OpensServicesFromFactory(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	var gotDir string
	closed := false
	settings := &mockSettingsService{values: map[string]string{"graph.max_depth": "3"}, keys: []string{"graph.max_depth"}}
	SetServiceFactory(func(dir string) (*Services, error) {
		gotDir = dir
		return &Services{
			Settings: settings,
			Close:    func() error { closed = true; return nil },
		}, nil
	})

	out, err := execute(t, "--data-dir", "/tmp/dg", "settings", "show")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/dg", gotDir)
	assert.True(t, closed)
	assert.Contains(t, out, "graph.max_depth")
}

func TestRootCmd_FactoryError(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	SetServiceFactory(func(string) (*Services, error) {
		return nil, errors.New("locked")
	})

	_, err := execute(t, "groups")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening data directory")
}

func TestRootCmd_VersionSkipsFactory(t *testing.T) {
	cleanup := setupTestServices(nil)
	defer cleanup()

	called := false
	SetServiceFactory(func(string) (*Services, error) {
		called = true
		return &Services{}, nil
	})

	_, err := execute(t, "version")
	require.NoError(t, err)
	assert.False(t, called)
}

func TestRootCmd_MissingService(t *testing.T) {
	cleanup := setupTestServices(&Services{Settings: &mockSettingsService{}})
	defer cleanup()

	_, err := execute(t, "graph", "build", "a")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "graph service not configured")
}

func TestVersionCmd_Executes(t *testing.T) {
	originalVersion := version
	SetVersion("test-version-1.0.0")
	defer func() { version = originalVersion }()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "docgraph version test-version-1.0.0")

	out, err = execute(t, "--json", "version")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "test-version-1.0.0"`)
}
