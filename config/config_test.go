package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	// GO_ENV=test is guaranteed by TestMain; DATABASE_URL is optional there
	os.Unsetenv("DATABASE_URL")
	os.Unsetenv("PORT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "test", cfg.GoEnv)
	assert.Equal(t, "orders-ledger.csv", cfg.LedgerObjectKey)
	assert.Equal(t, "static", cfg.StaticDir)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.True(t, cfg.IsTest())
	assert.False(t, cfg.IsProduction())
}

func TestLoadReadsEnvironment(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("ADMIN_EMAIL", "admin@purevia.example")
	os.Setenv("LEDGER_OBJECT_KEY", "ledger/orders.csv")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ADMIN_EMAIL")
		os.Unsetenv("LEDGER_OBJECT_KEY")
	}()

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "admin@purevia.example", cfg.AdminEmail)
	assert.Equal(t, "ledger/orders.csv", cfg.LedgerObjectKey)
}

func TestValidateRequiresDatabaseURLOutsideTests(t *testing.T) {
	cfg := &Config{GoEnv: "production"}
	assert.Error(t, cfg.Validate())

	cfg.DatabaseURL = "postgresql://localhost/purevia"
	assert.NoError(t, cfg.Validate())

	// Tests run against in-memory SQLite, no DATABASE_URL needed
	testCfg := &Config{GoEnv: "test"}
	assert.NoError(t, testCfg.Validate())
}

func TestGetEnvDefault(t *testing.T) {
	os.Unsetenv("SOME_UNSET_KEY")
	assert.Equal(t, "fallback", getEnv("SOME_UNSET_KEY", "fallback"))

	os.Setenv("SOME_UNSET_KEY", "value")
	defer os.Unsetenv("SOME_UNSET_KEY")
	assert.Equal(t, "value", getEnv("SOME_UNSET_KEY", "fallback"))
}

func TestSetConfigAndGetConfig(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	cfg := &Config{GoEnv: "test", Port: "1234"}
	SetConfig(cfg)
	assert.Same(t, cfg, GetConfig())
}
