package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMasterDefaults(t *testing.T) {
	t.Setenv("USERSERVICE_HOST", "users.local")
	t.Setenv("USERSERVICE_PORT", "8080")

	cfg, err := LoadMaster(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.BindAddress)
	assert.Equal(t, uint16(30001), cfg.PortMaster)
	assert.Equal(t, uint16(30002), cfg.PortHolepunch)
	assert.Equal(t, "packets", cfg.DumpDir)
	assert.False(t, cfg.LogPackets)
	assert.Equal(t, "http://users.local:8080", cfg.UserService.BaseURL())
	require.NotEmpty(t, cfg.ChannelServers)
	assert.NotEmpty(t, cfg.ChannelServers[0].Channels)
}

func TestLoadMasterYAMLAndEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "masterserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bind_address: 10.0.0.5
port_master: 40001
log_packets: true
user_service:
  host: svc
  port: 9000
channel_servers:
  - name: EU
    channels: ["One", "Two"]
`), 0o644))

	// the environment wins over the file
	t.Setenv("PORT_MASTER", "41001")

	cfg, err := LoadMaster(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.BindAddress)
	assert.Equal(t, uint16(41001), cfg.PortMaster)
	assert.True(t, cfg.LogPackets)
	assert.Equal(t, "http://svc:9000", cfg.UserService.BaseURL())
	require.Len(t, cfg.ChannelServers, 1)
	assert.Equal(t, "EU", cfg.ChannelServers[0].Name)
	assert.Equal(t, []string{"One", "Two"}, cfg.ChannelServers[0].Channels)
}

func TestLoadMasterRequiresUserService(t *testing.T) {
	t.Setenv("USERSERVICE_HOST", "")
	t.Setenv("USERSERVICE_PORT", "")

	_, err := LoadMaster(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user service")
}

func TestLoadMasterRejectsBrokenYAML(t *testing.T) {
	t.Setenv("USERSERVICE_HOST", "users.local")
	t.Setenv("USERSERVICE_PORT", "8080")

	path := filepath.Join(t.TempDir(), "masterserver.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port_master: [not a port"), 0o644))

	_, err := LoadMaster(path)
	require.Error(t, err)
}
