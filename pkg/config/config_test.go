package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "MyAuthServer", cfg.JWT.Issuer)
	assert.Equal(t, "MyAuthClient", cfg.JWT.Audience)
	assert.Equal(t, 60*time.Minute, cfg.JWT.TTL())
	assert.Equal(t, 5*time.Minute, cfg.Auth.CodeTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.RestoreWindow())
	assert.Equal(t, "memory", cfg.Auth.CodeStore)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("AUTH_RESTORE_WINDOW_DAYS", "7")
	v.Set("AUTH_CODE_STORE", "REDIS")
	v.Set("HTTP_PORT", 9090)

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.RestoreWindow())
	assert.Equal(t, "redis", cfg.Auth.CodeStore)
	assert.Equal(t, 9090, cfg.HTTP.Port)
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_UnknownCodeStore(t *testing.T) {
	v := viper.New()
	v.Set("AUTH_CODE_STORE", "memcached")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "shop", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/shop?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
