package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditDetails_Value(t *testing.T) {
	var empty AuditDetails
	v, err := empty.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = AuditDetails{"target": "AppAuthSuccess"}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"target":"AppAuthSuccess"}`, string(v.([]byte)))
}

func TestAuditDetails_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    AuditDetails
		wantErr bool
	}{
		{name: "nil", input: nil, want: nil},
		{name: "bytes", input: []byte(`{"record_id":"rec-1"}`), want: AuditDetails{"record_id": "rec-1"}},
		{name: "string", input: `{"next":"/dash"}`, want: AuditDetails{"next": "/dash"}},
		{name: "unsupported type", input: 42, wantErr: true},
		{name: "invalid json", input: "{", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got AuditDetails
			err := got.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
