package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapOfAny_Scan(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    MapOfAny
		wantErr bool
	}{
		{
			name:  "valid JSON bytes",
			input: []byte(`{"key": "value", "number": 123}`),
			want: MapOfAny{
				"key":    "value",
				"number": float64(123),
			},
		},
		{
			name:  "valid JSON string",
			input: `{"key": "value"}`,
			want:  MapOfAny{"key": "value"},
		},
		{
			name:  "nil leaves map untouched",
			input: nil,
			want:  nil,
		},
		{
			name:    "invalid JSON",
			input:   []byte(`{not json`),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m MapOfAny
			err := m.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestMapOfAny_Value(t *testing.T) {
	m := MapOfAny{"email_width": 640}
	val, err := m.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"email_width": 640}`, string(val.([]byte)))
}

func TestSlotAssignments_RoundTrip(t *testing.T) {
	assignments := SlotAssignments{"feat": 42, "slot_2": 7}

	val, err := assignments.Value()
	require.NoError(t, err)

	var scanned SlotAssignments
	require.NoError(t, scanned.Scan(val))
	assert.Equal(t, assignments, scanned)
}

func TestSlotAssignments_ScanNil(t *testing.T) {
	var scanned SlotAssignments
	require.NoError(t, scanned.Scan(nil))
	assert.Nil(t, scanned)
}
