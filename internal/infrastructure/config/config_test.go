package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Storage.Driver)
	assert.Equal(t, 10*time.Second, cfg.Purchase.Timeout)
	assert.Equal(t, uint64(3), cfg.Purchase.MaxRetries)
	assert.Equal(t, 30*time.Second, cfg.Cache.StatsTTL)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LITSHOP_SERVER_PORT", "9090")
	t.Setenv("LITSHOP_STORAGE_DRIVER", "memory")
	t.Setenv("LITSHOP_PURCHASE_LOCK_WAIT", "250ms")
	t.Setenv("LITSHOP_DATABASE_PASSWORD", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Purchase.LockWait)
	assert.Equal(t, "s3cret", cfg.Database.Password)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"端口越界", "LITSHOP_SERVER_PORT", "70000"},
		{"未知存储驱动", "LITSHOP_STORAGE_DRIVER", "sqlite"},
		{"购买超时为0", "LITSHOP_PURCHASE_TIMEOUT", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_ReleaseRequiresSecret(t *testing.T) {
	t.Setenv("LITSHOP_SERVER_MODE", "release")
	_, err := Load()
	require.Error(t, err)

	t.Setenv("LITSHOP_JWT_SECRET", "a-real-secret")
	_, err = Load()
	assert.NoError(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 3306, User: "u", Password: "p", DBName: "litshop",
		Charset: "utf8mb4", ParseTime: true, Loc: "Asia/Shanghai", LockWaitTimeout: 5,
	}
	assert.Equal(t,
		"u:p@tcp(db:3306)/litshop?charset=utf8mb4&parseTime=true&loc=Asia%2FShanghai&innodb_lock_wait_timeout=5",
		d.DSN())
}
