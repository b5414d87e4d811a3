package main

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/sbilibin2017/fakebook-db/internal/config"
	"github.com/sbilibin2017/fakebook-db/internal/schema"
	"github.com/sbilibin2017/fakebook-db/internal/session"
	"github.com/stretchr/testify/assert"
)

func TestParseFlags_Default(t *testing.T) {
	opts, err := parseFlags([]string{"migrate-up"})
	assert.NoError(t, err)
	assert.Equal(t, options{configPath: "config.env", onDelete: "restrict", command: cmdMigrateUp}, opts)
}

func TestParseFlags_Custom(t *testing.T) {
	opts, err := parseFlags([]string{"-c", "prod.env", "-on-delete", "cascade", "seed"})
	assert.NoError(t, err)
	assert.Equal(t, "prod.env", opts.configPath)
	assert.Equal(t, "cascade", opts.onDelete)
	assert.Equal(t, cmdSeed, opts.command)
}

func TestParseFlags_Errors(t *testing.T) {
	tests := map[string][]string{
		"no command":        {},
		"two commands":      {"migrate-up", "seed"},
		"unknown command":   {"serve"},
		"bad delete action": {"-on-delete", "set-null", "migrate-up"},
		"unknown flag":      {"-x", "seed"},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseFlags(args)
			assert.Error(t, err)
		})
	}
}

func TestDeleteAction(t *testing.T) {
	a, err := deleteAction("CASCADE")
	assert.NoError(t, err)
	assert.Equal(t, schema.Cascade, a)

	a, err = deleteAction("restrict")
	assert.NoError(t, err)
	assert.Equal(t, schema.Restrict, a)
}

func TestPrintBuildInfo_Output(t *testing.T) {
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	buildVersion = "v1.0.0"
	buildCommit = "abcd1234"
	buildDate = "2025-09-26"

	printBuildInfo()

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout

	out := buf.String()
	assert.Contains(t, out, "Version: v1.0.0")
	assert.Contains(t, out, "Commit: abcd1234")
	assert.Contains(t, out, "Build date: 2025-09-26")
}

func TestRun_ConnectionError(t *testing.T) {
	cfg := &config.Config{
		LogLevel: "error",
		Database: config.Database{
			Host:     "127.0.0.1",
			Port:     1,
			Name:     "fakebook",
			AuthMode: config.AuthTrusted,
		},
	}
	err := run(context.Background(), cfg, options{onDelete: "restrict", command: cmdMigrateUp})
	assert.ErrorIs(t, err, session.ErrConnection)
}

func TestRun_BadLogLevel(t *testing.T) {
	cfg := &config.Config{LogLevel: "shout"}
	err := run(context.Background(), cfg, options{onDelete: "restrict", command: cmdSeed})
	assert.Error(t, err)
}
