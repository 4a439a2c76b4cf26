package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func captureOutput() *bytes.Buffer {
	var buf bytes.Buffer
	log = zerolog.New(&buf).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	return &buf
}

func TestInit(t *testing.T) {
	Init()
	assert.NotEqual(t, zerolog.Disabled, log.GetLevel())
}

func TestInfo(t *testing.T) {
	buf := captureOutput()

	Info("test message")

	assert.Contains(t, buf.String(), "test message")
}

func TestInfoWithFields(t *testing.T) {
	buf := captureOutput()

	Info("http request", "method", "GET", "status", 200)

	output := buf.String()
	assert.Contains(t, output, "http request")
	assert.Contains(t, output, `"method":"GET"`)
	assert.Contains(t, output, `"status":200`)
}

func TestInfoOddFieldsIgnored(t *testing.T) {
	buf := captureOutput()

	// trailing key without a value must not panic
	Info("odd", "dangling")

	assert.Contains(t, buf.String(), "odd")
}

func TestError(t *testing.T) {
	buf := captureOutput()

	Error("test error")

	output := buf.String()
	assert.Contains(t, output, "test error")
	assert.Contains(t, output, `"level":"error"`)
}

func TestDebugf(t *testing.T) {
	buf := captureOutput()

	Debugf("test %s", "debug")

	assert.Contains(t, buf.String(), "test debug")
}

func TestErrorf(t *testing.T) {
	buf := captureOutput()

	Errorf("failed: %v", assert.AnError)

	assert.Contains(t, buf.String(), "failed")
}
