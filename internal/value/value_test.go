package value

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueKinds(t *testing.T) {
	tests := []struct {
		name     string
		value    Value
		kind     Kind
		rendered string
	}{
		{"null", Null(), KindNull, "null"},
		{"bool true", Bool(true), KindBool, "true"},
		{"bool false", Bool(false), KindBool, "false"},
		{"int", Int(42), KindInt, "42"},
		{"negative int", Int(-7), KindInt, "-7"},
		{"float", Float(1.5), KindFloat, "1.5"},
		{"whole float", Float(2), KindFloat, "2"},
		{"string", String("hello"), KindString, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.Equal(t, tt.rendered, tt.value.Render())
		})
	}
}

func TestValueZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "bool", KindBool.String())
	assert.Equal(t, "int", KindInt.String())
	assert.Equal(t, "float", KindFloat.String())
	assert.Equal(t, "str", KindString.String())
}

func TestIsMissing(t *testing.T) {
	assert.True(t, Null().IsMissing())
	assert.True(t, Float(math.NaN()).IsMissing())
	assert.True(t, String("").IsMissing())

	assert.False(t, Bool(false).IsMissing())
	assert.False(t, Int(0).IsMissing())
	assert.False(t, Float(0).IsMissing())
	assert.False(t, String("x").IsMissing())
}

func TestIsNaN(t *testing.T) {
	assert.True(t, Float(math.NaN()).IsNaN())
	assert.False(t, Float(1.0).IsNaN())
	assert.False(t, Null().IsNaN())
	assert.False(t, String("NaN").IsNaN())
}

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same ints", Int(3), Int(3), true},
		{"different ints", Int(3), Int(4), false},
		{"same strings", String("a"), String("a"), true},
		{"same bools", Bool(true), Bool(true), true},
		{"same floats", Float(1.5), Float(1.5), true},
		{"kind mismatch", Int(1), Float(1), false},
		{"null never equals null", Null(), Null(), false},
		{"null never equals value", Null(), Int(0), false},
		{"nan never equals itself", Float(math.NaN()), Float(math.NaN()), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
			assert.Equal(t, tt.want, tt.b.Equal(tt.a))
		})
	}
}

func TestKeyDistinguishesKinds(t *testing.T) {
	// "1" as string, int and float must group separately.
	assert.NotEqual(t, String("1").Key(), Int(1).Key())
	assert.NotEqual(t, Int(1).Key(), Float(1).Key())
	assert.Equal(t, Int(1).Key(), Int(1).Key())
}

func TestFromAny(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Value
	}{
		{"nil", nil, Null()},
		{"bool", true, Bool(true)},
		{"int", 7, Int(7)},
		{"int64", int64(9), Int(9)},
		{"int32", int32(5), Int(5)},
		{"uint8", uint8(255), Int(255)},
		{"float64", 2.5, Float(2.5)},
		{"float32", float32(0.5), Float(0.5)},
		{"string", "x", String("x")},
		{"value passthrough", Int(1), Int(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromAny(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind(), got.Kind())
			assert.Equal(t, tt.want.Render(), got.Render())
		})
	}

	_, err := FromAny(struct{}{})
	assert.Error(t, err)
}

func TestIsIntegerString(t *testing.T) {
	assert.True(t, IsIntegerString("123"))
	assert.True(t, IsIntegerString("-5"))
	assert.True(t, IsIntegerString("+5"))
	assert.False(t, IsIntegerString(""))
	assert.False(t, IsIntegerString("-"))
	assert.False(t, IsIntegerString("1.5"))
	assert.False(t, IsIntegerString("12a"))
}

func TestIsDecimalString(t *testing.T) {
	assert.True(t, IsDecimalString("1.5"))
	assert.True(t, IsDecimalString("123"))
	assert.True(t, IsDecimalString("-2.75"))
	assert.False(t, IsDecimalString(""))
	assert.False(t, IsDecimalString("abc"))
	assert.False(t, IsDecimalString("1.2.3"))
}
