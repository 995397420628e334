package git

import (
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metagov/dao-governance-surfaces/pkg/shared/config"
)

func testLogger() hclog.Logger {
	return hclog.NewNullLogger()
}

func TestNewClientDefaults(t *testing.T) {
	client, err := New(testLogger(), &config.Config{}, &CloneRequest{
		CloneURL: "https://github.com/aragon/aragonOS.git",
	})
	require.NoError(t, err)

	assert.Nil(t, client.auth)
	assert.Equal(t, 10*time.Minute, client.timeout)
}

func TestNewClientConfiguredTimeout(t *testing.T) {
	cfg := &config.Config{}
	cfg.GitClient.Timeout = time.Minute

	client, err := New(testLogger(), cfg, &CloneRequest{
		CloneURL: "https://github.com/aragon/aragonOS.git",
	})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, client.timeout)
}

func TestNewClientUnknownAuthType(t *testing.T) {
	_, err := New(testLogger(), &config.Config{}, &CloneRequest{
		CloneURL: "https://github.com/aragon/aragonOS.git",
		AuthType: "kerberos",
	})
	assert.Error(t, err)
}
