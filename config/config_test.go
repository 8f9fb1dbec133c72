package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_URL", "https://example.supabase.co")
	t.Setenv("STORE_KEY", "secret")
	t.Setenv("SYNC_PROFILE", "")
	t.Setenv("TARGET_TABLE", "")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProfileFundIDs, cfg.Profile)
	assert.Equal(t, "price_history", cfg.TargetTable)
	assert.Equal(t, "funds", cfg.FundsTable)
	assert.True(t, cfg.ResolveFundIDs)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_CodesProfile(t *testing.T) {
	t.Setenv("STORE_URL", "https://example.supabase.co")
	t.Setenv("STORE_KEY", "secret")
	t.Setenv("SYNC_PROFILE", ProfileCodes)
	t.Setenv("TARGET_TABLE", "")
	t.Setenv("HTTP_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "prices", cfg.TargetTable)
	assert.False(t, cfg.ResolveFundIDs)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
}

func TestLoad_TargetTableOverride(t *testing.T) {
	t.Setenv("SYNC_PROFILE", ProfileFundIDs)
	t.Setenv("TARGET_TABLE", "fund_prices")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "fund_prices", cfg.TargetTable)
}

func TestValidate_MissingStoreSettings(t *testing.T) {
	cfg := Config{Profile: ProfileFundIDs, TargetTable: "price_history", FundsTable: "funds", ResolveFundIDs: true}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_URL is required")
	assert.Contains(t, err.Error(), "STORE_KEY is required")
}

func TestValidate_UnknownProfile(t *testing.T) {
	cfg := Config{StoreURL: "u", StoreKey: "k", Profile: "both", TargetTable: "prices"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYNC_PROFILE")
}

func TestScheduleClock(t *testing.T) {
	h, m, err := Config{ScheduleAt: "18:45"}.ScheduleClock()
	require.NoError(t, err)
	assert.Equal(t, 18, h)
	assert.Equal(t, 45, m)

	_, _, err = Config{ScheduleAt: "quarter past"}.ScheduleClock()
	assert.Error(t, err)
}

func TestLoad_UnparsableValues(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "thirty")
	t.Setenv("SERVER_PORT", "eighty")

	cfg, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_TIMEOUT")
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 8080, cfg.ServerPort)
}

func TestLoad_ServerPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("HTTP_TIMEOUT", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
}
