package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigDSN(t *testing.T) {
	cfg := Config{
		Host:     "db",
		Port:     "5432",
		User:     "acme",
		Password: "secret",
		DBName:   "store",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=db port=5432 user=acme password=secret dbname=store sslmode=disable",
		cfg.DSN(),
	)
}

func TestNewPostgresConnectionFailsWithoutServer(t *testing.T) {
	_, err := NewPostgresConnection("host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1")
	assert.Error(t, err)
}
