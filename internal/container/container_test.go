package container

import (
	"testing"

	"chatgate/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestEnv sets up test environment variables
func setupTestEnv(t testing.TB) {
	t.Helper()
	t.Setenv("UPSTREAM_API_KEY", "sk-test-1234567890")
	t.Setenv("PORT", "3001")
}

// TestBuildContainer tests container creation
func TestBuildContainer(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)
	require.NotNil(t, container)
}

// TestBuildContainer_ConfigManagerResolution tests config manager resolution
func TestBuildContainer_ConfigManagerResolution(t *testing.T) {
	setupTestEnv(t)

	container, err := BuildContainer()
	require.NoError(t, err)

	var configManager types.ConfigManager
	err = container.Invoke(func(cm types.ConfigManager) {
		configManager = cm
	})
	require.NoError(t, err)
	assert.NotNil(t, configManager)
	assert.Equal(t, 3001, configManager.GetEffectiveServerConfig().Port)
}
