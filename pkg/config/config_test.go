package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("AUTH_MODE", "")
	t.Setenv("ENV", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverBolt, cfg.StoreDriver)
	assert.Equal(t, "socialfeed.db", cfg.BoltPath)
	assert.Equal(t, AuthModeJWT, cfg.AuthMode)
	assert.NotEmpty(t, cfg.JWTSecret, "development falls back to a local secret")
	assert.Equal(t, "9090", cfg.MetricsPort)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "bolt with jwt",
			cfg:  Config{StoreDriver: DriverBolt, BoltPath: "x.db", AuthMode: AuthModeJWT, JWTSecret: "s"},
		},
		{
			name:    "mongo without uri",
			cfg:     Config{StoreDriver: DriverMongo, AuthMode: AuthModeJWT, JWTSecret: "s"},
			wantErr: true,
		},
		{
			name:    "postgres without dsn",
			cfg:     Config{StoreDriver: DriverPostgres, AuthMode: AuthModeJWT, JWTSecret: "s"},
			wantErr: true,
		},
		{
			name:    "firebase without credentials",
			cfg:     Config{StoreDriver: DriverBolt, BoltPath: "x.db", AuthMode: AuthModeFirebase},
			wantErr: true,
		},
		{
			name:    "jwt without secret",
			cfg:     Config{StoreDriver: DriverBolt, BoltPath: "x.db", AuthMode: AuthModeJWT},
			wantErr: true,
		},
		{
			name:    "unknown driver",
			cfg:     Config{StoreDriver: "sqlite", AuthMode: AuthModeJWT, JWTSecret: "s"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
