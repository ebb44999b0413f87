package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Warning)

	l.Infof("dropped %d", 1)
	l.Warningf("kept %d", 2)
	l.Error("also kept")

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "WARNING kept 2")
	assert.Contains(t, out, "ERROR also kept")
	assert.Contains(t, out, "logger_test.go")
}

func TestParseSeverity(t *testing.T) {
	assert.Equal(t, Debug, ParseSeverity("DEBUG"))
	assert.Equal(t, Warning, ParseSeverity("warn"))
	assert.Equal(t, Error, ParseSeverity(" error "))
	assert.Equal(t, Info, ParseSeverity("whatever"))
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Debug)

	ctx := NewContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
	assert.Same(t, l, Static(l)(context.Background()))
}
