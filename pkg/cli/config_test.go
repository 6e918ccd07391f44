package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserConfig_ActiveProfile(t *testing.T) {
	cfg := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://localhost:9022"},
			"staging": {Host: "https://acm.staging.example.com", User: "svc"},
		},
	}

	assert.Equal(t, "http://localhost:9022", cfg.ActiveProfile("").Host)
	assert.Equal(t, "svc", cfg.ActiveProfile("staging").User)
	assert.Equal(t, Profile{}, cfg.ActiveProfile("missing"))
}

func TestSaveAndLoadUserConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	in := &UserConfig{
		CurrentProfile: "default",
		Profiles: map[string]Profile{
			"default": {Host: "http://localhost:9022", User: "acm", Password: "pw"},
		},
	}
	require.NoError(t, SaveUserConfig(in))

	out, err := LoadUserConfig()
	require.NoError(t, err)
	assert.Equal(t, "default", out.CurrentProfile)
	assert.Equal(t, "pw", out.Profiles["default"].Password)
}

func TestLoadUserConfig_Missing(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	_, err := LoadUserConfig()
	require.Error(t, err)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "", maskSecret(""))
	assert.Equal(t, "****", maskSecret("short"))
	assert.Equal(t, "abcd****wxyz", maskSecret("abcdefghijklmnopqrstuvwxyz"))
}
