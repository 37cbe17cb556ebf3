package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"explicit memory wins", Config{Mode: ModeMemory, DeployEnv: "production"}, ModeMemory},
		{"explicit postgres wins", Config{Mode: ModePostgres, Env: "development"}, ModePostgres},
		{"development env sniffs to memory", Config{Env: "development"}, ModeMemory},
		{"loopback hostname sniffs to memory", Config{Hostname: "localhost:3000"}, ModeMemory},
		{"loopback database url sniffs to memory", Config{DatabaseURL: "postgres://127.0.0.1/game"}, ModeMemory},
		{"preview deploy is remote", Config{DeployEnv: "preview", DatabaseURL: "postgres://db.internal/game"}, ModePostgres},
		{"ambiguous defaults to postgres", Config{}, ModePostgres},
		{"unknown explicit mode falls back to sniffing", Config{Mode: "sqlite", Env: "development"}, ModeMemory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectMode(tt.cfg))
		})
	}
}

func TestOpenMemory(t *testing.T) {
	store, err := Open(Config{Mode: ModeMemory})
	assert.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, store)
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	_, err := Open(Config{Mode: ModePostgres})
	assert.Error(t, err)
}
