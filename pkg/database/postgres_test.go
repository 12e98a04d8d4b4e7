package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/career-roadmap-api/pkg/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DatabaseConfig{Host: "db", Port: 5432, User: "app", Password: "pw", Name: "roadmap"})
	assert.Equal(t, "host=db port=5432 user=app password=pw dbname=roadmap sslmode=disable", dsn)

	dsn = DSN(config.DatabaseConfig{Host: "db", Port: 5433, User: "app", Name: "roadmap", SSLMode: "require"})
	assert.Contains(t, dsn, "sslmode=require")
}
