package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"channel-insights/infrastructure/configuration"
)

func TestPostgresDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  configuration.Db
		want string
	}{
		{
			name: "full credentials",
			cfg:  configuration.Db{Name: "insights", Host: "db", Port: "5432", User: "app", Password: "p@ss", SSLMode: "disable"},
			want: "postgres://app:p%40ss@db:5432/insights?sslmode=disable",
		},
		{
			name: "user without password",
			cfg:  configuration.Db{Name: "insights", Host: "localhost", Port: "5433", User: "app"},
			want: "postgres://app@localhost:5433/insights",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PostgresDSN(tt.cfg))
		})
	}
}

func TestNewPostgreSQLDB_Unreachable(t *testing.T) {
	// Port 1 is never a PostgreSQL server; the constructor must fail on ping
	// rather than hand back an unusable pool.
	db, err := NewPostgreSQLDB(configuration.Db{Name: "x", Host: "127.0.0.1", Port: "1", SSLMode: "disable"})
	assert.Error(t, err)
	assert.Nil(t, db)
}
