package cast

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goquent/goquent/runtime/types"
)

func TestJSONRoundTrip(t *testing.T) {
	casts := map[string]string{"profile": TagJSON}

	row := Apply(types.Row{"profile": map[string]interface{}{"a": 1}}, casts, Outbound)
	text, ok := row["profile"].(string)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, text)

	row = Apply(row, casts, Inbound)
	assert.Equal(t, map[string]interface{}{"a": float64(1)}, row["profile"])
}

func TestJSONOutboundFailureDegradesToNil(t *testing.T) {
	casts := map[string]string{"profile": TagJSON}
	row := Apply(types.Row{"profile": make(chan int)}, casts, Outbound)
	assert.Nil(t, row["profile"])
}

func TestBooleanInbound(t *testing.T) {
	casts := map[string]string{"active": TagBoolean}
	tests := []struct {
		in   interface{}
		want interface{}
	}{
		{int64(1), true},
		{int64(0), false},
		{"1", true},
		{"0", false},
		{"true", true},
		{true, true},
		{[]byte("1"), true},
		{"garbage", nil},
	}
	for _, tt := range tests {
		row := Apply(types.Row{"active": tt.in}, casts, Inbound)
		assert.Equal(t, tt.want, row["active"], "input %#v", tt.in)
	}
}

func TestBooleanOutbound(t *testing.T) {
	casts := map[string]string{"active": TagBoolean}

	row := Apply(types.Row{"active": true}, casts, Outbound)
	assert.Equal(t, 1, row["active"])

	row = Apply(types.Row{"active": false}, casts, Outbound)
	assert.Equal(t, 0, row["active"])
}

func TestDateInbound(t *testing.T) {
	casts := map[string]string{"created_at": TagDate}

	row := Apply(types.Row{"created_at": "2024-03-01 10:30:00"}, casts, Inbound)
	ts, ok := row["created_at"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())

	row = Apply(types.Row{"created_at": "2024-03-01T10:30:00Z"}, casts, Inbound)
	_, ok = row["created_at"].(time.Time)
	assert.True(t, ok)

	// Unparseable text degrades to nil instead of failing the row.
	row = Apply(types.Row{"created_at": "not a date"}, casts, Inbound)
	assert.Nil(t, row["created_at"])
}

func TestDateOutbound(t *testing.T) {
	casts := map[string]string{"created_at": TagDate}
	ts := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	row := Apply(types.Row{"created_at": ts}, casts, Outbound)
	assert.Equal(t, "2024-03-01T10:30:00Z", row["created_at"])

	row = Apply(types.Row{"created_at": 12345}, casts, Outbound)
	assert.Nil(t, row["created_at"])
}

func TestNumber(t *testing.T) {
	casts := map[string]string{"score": TagNumber}

	row := Apply(types.Row{"score": "12.5"}, casts, Inbound)
	assert.Equal(t, 12.5, row["score"])

	row = Apply(types.Row{"score": int64(7)}, casts, Inbound)
	assert.Equal(t, 7.0, row["score"])

	row = Apply(types.Row{"score": "NaN?"}, casts, Inbound)
	assert.Nil(t, row["score"])
}

func TestString(t *testing.T) {
	casts := map[string]string{"code": TagString}

	row := Apply(types.Row{"code": int64(42)}, casts, Inbound)
	assert.Equal(t, "42", row["code"])

	row = Apply(types.Row{"code": []byte("abc")}, casts, Inbound)
	assert.Equal(t, "abc", row["code"])
}

func TestUntaggedAndAbsentFieldsUntouched(t *testing.T) {
	casts := map[string]string{"active": TagBoolean}

	row := Apply(types.Row{"name": "x"}, casts, Inbound)
	assert.Equal(t, "x", row["name"])
	_, present := row["active"]
	assert.False(t, present)

	// Nil values are left alone by the engine.
	row = Apply(types.Row{"active": nil}, casts, Inbound)
	assert.Nil(t, row["active"])
}
