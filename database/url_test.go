package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructDatabaseURL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		dbName   string
		expected string
	}{
		{
			name:     "no database name keeps base",
			baseURL:  "postgres://u:p@localhost:5432/dicepot",
			dbName:   "",
			expected: "postgres://u:p@localhost:5432/dicepot",
		},
		{
			name:     "appends name and sslmode",
			baseURL:  "postgres://u:p@localhost:5432",
			dbName:   "dicepot",
			expected: "postgres://u:p@localhost:5432/dicepot?sslmode=disable",
		},
		{
			name:     "trims trailing slash",
			baseURL:  "postgres://u:p@localhost:5432/",
			dbName:   "dicepot",
			expected: "postgres://u:p@localhost:5432/dicepot?sslmode=disable",
		},
		{
			name:     "inserts name before query",
			baseURL:  "postgres://u:p@localhost:5432?connect_timeout=5",
			dbName:   "dicepot",
			expected: "postgres://u:p@localhost:5432/dicepot?connect_timeout=5&sslmode=disable",
		},
		{
			name:     "keeps existing sslmode",
			baseURL:  "postgres://u:p@db:5432?sslmode=require",
			dbName:   "dicepot",
			expected: "postgres://u:p@db:5432/dicepot?sslmode=require",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ConstructDatabaseURL(tt.baseURL, tt.dbName))
		})
	}
}
