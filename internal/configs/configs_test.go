package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	t.Setenv("CHAT_URL", "ws://chat.example/ws")
	t.Setenv("CHAT_IDENTITY", "rugamia@example.com")
	t.Setenv("ROOMS", "room@conference.example")
	t.Setenv("TRACKER_URL", "http://tracker.example")

	// Blank out the optional variables so ambient values cannot leak in.
	for _, name := range []string{"ENVIRONMENT", "NICK", "RELAY_SOCKET", "TRACKER_FORMAT", "CREDENTIALS_FILE"} {
		t.Setenv(name, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "rugamia", cfg.Nick, "nick defaults to the node part of the identity")
	assert.Equal(t, "/tmp/rugamia.ipc", cfg.RelaySocket)
	assert.Equal(t, "json", cfg.TrackerFormat)
	assert.Equal(t, "./rugamia.cfg", cfg.CredentialsFile)
}

func TestLoadConfigParsesRoomList(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROOMS", "a@conference.example, b@conference.example ,")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"a@conference.example", "b@conference.example"}, cfg.Rooms)
}

func TestLoadConfigRequiresRooms(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROOMS", "")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestLoadConfigRejectsUnknownTrackerFormat(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRACKER_FORMAT", "yaml")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRACKER_FORMAT")
}

func TestLoadConfigTrimsTrackerURL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TRACKER_URL", "http://tracker.example/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://tracker.example", cfg.TrackerURL)
}
