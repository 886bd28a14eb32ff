package store

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields(t *testing.T) {
	fields, err := DecodeFields(json.RawMessage(`{"id": 3, "price": 12.5, "name": null}`))
	require.NoError(t, err)
	assert.True(t, fields.Has("id"))
	assert.False(t, fields.Has("name"))
	assert.False(t, fields.Has("missing"))
	assert.Equal(t, json.Number("3"), fields["id"])

	_, err = DecodeFields(json.RawMessage(`null`))
	assert.Error(t, err)
	_, err = DecodeFields(json.RawMessage(`[1]`))
	assert.Error(t, err)
}

func TestInt(t *testing.T) {
	tests := []struct {
		in      any
		want    int
		wantErr bool
	}{
		{in: json.Number("7"), want: 7},
		{in: json.Number("7.0"), want: 7},
		{in: json.Number("7.5"), wantErr: true},
		{in: " 12 ", want: 12},
		{in: "twelve", wantErr: true},
		{in: 4.0, want: 4},
		{in: json.Number("1e19"), wantErr: true},
		{in: json.Number("-1e19"), wantErr: true},
		{in: 1e19, wantErr: true},
		{in: math.Inf(1), wantErr: true},
		{in: math.NaN(), wantErr: true},
		{in: nil, wantErr: true},
		{in: true, wantErr: true},
	}
	for _, tt := range tests {
		got, err := Int(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %v", tt.in)
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestFloat(t *testing.T) {
	got, err := Float(json.Number("50000"))
	require.NoError(t, err)
	assert.Equal(t, 50000.0, got)

	got, err = Float("12.25")
	require.NoError(t, err)
	assert.Equal(t, 12.25, got)

	_, err = Float("cheap")
	assert.Error(t, err)

	for _, in := range []any{"NaN", "Inf", " -Infinity ", json.Number("1e400"), math.Inf(-1), math.NaN()} {
		_, err := Float(in)
		assert.Error(t, err, "input %v", in)
	}
}

func TestStringAndOptionalString(t *testing.T) {
	s, err := String(json.Number("42"))
	require.NoError(t, err)
	assert.Equal(t, "42", s)

	_, err = String(map[string]any{})
	assert.Error(t, err)

	opt, err := OptionalString(nil)
	require.NoError(t, err)
	assert.Nil(t, opt)

	opt, err = OptionalString("Ana")
	require.NoError(t, err)
	require.NotNil(t, opt)
	assert.Equal(t, "Ana", *opt)
}
