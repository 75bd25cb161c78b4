package runner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		ok      bool
		count   int
		counted bool
		failure string
	}{
		{"health", `{"status": "ok"}`, true, 0, false, "未知错误"},
		{"status down", `{"status": "down"}`, false, 0, false, "未知错误"},
		{"items list", `{"success": true, "data": {"items": [1, 2, 3], "total": 3}}`, true, 3, true, "未知错误"},
		{"data list", `{"success": 1, "data": []}`, true, 0, true, "未知错误"},
		{"success wins over status", `{"success": false, "status": "ok", "error": "bad date"}`, false, 0, false, "bad date"},
		{"falsy string", `{"success": "", "data": {"items": []}}`, false, 0, true, "未知错误"},
		{"error object", `{"success": false, "error": {"message": "timeout"}}`, false, 0, false, "timeout"},
		{"ambiguous data", `{"success": true, "data": {"total": 3}}`, true, 0, false, "未知错误"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, doc, err := ParseEnvelope([]byte(tt.body))
			require.NoError(t, err)
			assert.NotNil(t, doc)
			assert.Equal(t, tt.ok, env.OK())
			n, counted := env.Count()
			assert.Equal(t, tt.counted, counted)
			assert.Equal(t, tt.count, n)
			assert.Equal(t, tt.failure, env.FailureText())
		})
	}
}

func TestParseEnvelopeInvalidJSON(t *testing.T) {
	_, _, err := ParseEnvelope([]byte("<html>"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotObject)
}

func TestParseEnvelopeRejectsNonObject(t *testing.T) {
	for _, body := range []string{`[1, 2]`, `null`, `"ok"`, `3`} {
		_, _, err := ParseEnvelope([]byte(body))
		assert.ErrorIs(t, err, ErrNotObject, body)
	}
}

func TestTruthy(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(0.0))
	assert.False(t, truthy(map[string]any{}))
	assert.True(t, truthy("yes"))
	assert.True(t, truthy([]any{false}))
}
