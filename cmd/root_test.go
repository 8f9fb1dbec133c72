package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viktsys/tefassync/config"
	"github.com/viktsys/tefassync/ingest"
)

func TestValidateStartup(t *testing.T) {
	cfg := config.Config{
		StoreURL:    "https://example.supabase.co",
		StoreKey:    "service-key",
		Profile:     config.ProfileCodes,
		TargetTable: "prices",
	}
	assert.NoError(t, validateStartup(cfg))

	cfg.StoreURL = ""
	err := validateStartup(cfg)

	var cfgErr *ingest.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "STORE_URL is required")
}

func TestLongRunningCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCMD.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["server"])
	assert.True(t, names["schedule"])
	assert.True(t, names["sync"])
}
