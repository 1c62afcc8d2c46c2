package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New("production", "info")
	require.NoError(t, err)
	assert.NotNil(t, l.SugaredLogger)

	_, err = New("development", "loud")
	assert.Error(t, err)
}

func TestRedact(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.Warn("source failed", "source", "supabase", "apikey", "s3cr3t", "db-connect", "user:pw@tcp(x)/db")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "supabase", fields["source"])
	assert.Equal(t, "[REDACTED]", fields["apikey"])
	assert.Equal(t, "[REDACTED]", fields["db-connect"])
}

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := (&Logger{SugaredLogger: zap.New(core).Sugar()}).With("session", "abc")
	l.Info("loaded", "count", 3)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "abc", fields["session"])
	assert.EqualValues(t, 3, fields["count"])
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("ignored", "k", "v")
	l.Sync()
}
