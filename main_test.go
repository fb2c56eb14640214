package main

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

func TestParseFlags_Defaults(t *testing.T) {
	cfg, err := parseFlags([]string{"-d", "vmart", "-t", "orders", "-o", "out.bin"})
	require.NoError(t, err)

	require.Equal(t, "localhost", cfg.Server)
	require.Equal(t, 5433, cfg.Port)
	require.Equal(t, "dbadmin", cfg.Username)
	require.Equal(t, int64(-1), cfg.Limit)
	require.False(t, cfg.Force)
}

func TestParseFlags_LongForms(t *testing.T) {
	cfg, err := parseFlags([]string{
		"--server", "db1", "--port", "5444", "--database", "vmart",
		"--username", "etl", "--password", "secret",
		"--table", "orders", "--output", "orders.bin",
		"--force", "--limit", "500",
	})
	require.NoError(t, err)

	require.Equal(t, "db1", cfg.Server)
	require.Equal(t, 5444, cfg.Port)
	require.Equal(t, "etl", cfg.Username)
	require.Equal(t, "secret", cfg.Password)
	require.Equal(t, int64(500), cfg.Limit)
	require.True(t, cfg.Force)
}

func TestConfig_Validation(t *testing.T) {
	v := validator.New()

	require.Error(t, v.Struct(Config{}), "empty config must not validate")

	require.NoError(t, v.Struct(Config{
		Server:   "localhost",
		Port:     5433,
		Database: "vmart",
		Username: "dbadmin",
		Output:   "out.bin",
		Table:    "orders",
	}))

	require.Error(t, v.Struct(Config{
		Server:   "localhost",
		Port:     99_999, // out of range
		Database: "vmart",
		Username: "dbadmin",
		Output:   "out.bin",
		Table:    "orders",
	}))
}
