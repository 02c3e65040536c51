package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseURL(t *testing.T) {
	tests := []struct {
		driver string
		dsn    string
		want   string
	}{
		{"postgres", "postgres://u:p@db:5432/shop", "pgx5://u:p@db:5432/shop"},
		{"postgres", "postgresql://u@db/shop", "pgx5://u@db/shop"},
		{"postgres", "u:p@db/shop", "pgx5://u:p@db/shop"},
		{"sqlite", "file:carts.db", "sqlite://carts.db"},
		{"sqlite", "/var/lib/carts.db", "sqlite:///var/lib/carts.db"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, databaseURL(tt.driver, tt.dsn), tt.dsn)
	}
}
