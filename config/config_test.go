package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vireo-tui/vireo/render"
)

func TestLoadAppliesDefaultsWhenUnset(t *testing.T) {
	for _, k := range []string{"VIREO_LOG_LEVEL", "VIREO_RENDER_MODE", "VIREO_NO_COLOR", "VIREO_FPS_BUDGET"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, render.ModeFullscreen, c.Mode())
	assert.False(t, c.NoColor)
	assert.Equal(t, 2*time.Millisecond, c.Budget())
}

func TestLoadReadsOverrides(t *testing.T) {
	t.Setenv("VIREO_LOG_LEVEL", "debug")
	t.Setenv("VIREO_RENDER_MODE", "inline")
	t.Setenv("VIREO_NO_COLOR", "true")
	t.Setenv("VIREO_FPS_BUDGET", "5ms")

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "debug", c.LogLevel)
	assert.Equal(t, render.ModeInline, c.Mode())
	assert.True(t, c.NoColor)
	assert.Equal(t, 5*time.Millisecond, c.Budget())
}

func TestUnrecognizedRenderModeFallsBackToFullscreen(t *testing.T) {
	c := Config{RenderMode: "bogus"}
	assert.Equal(t, render.ModeFullscreen, c.Mode())
}
