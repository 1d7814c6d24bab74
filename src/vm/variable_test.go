package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testEffect struct{ strength int }

func TestVariable_Equal(t *testing.T) {
	t.Parallel()

	shared := &testEffect{strength: 3}

	testcases := []struct {
		desc  string
		a, b  Variable
		equal bool
	}{
		{desc: "ints", a: OfInt(5), b: OfInt(5), equal: true},
		{desc: "differing ints", a: OfInt(5), b: OfInt(6), equal: false},
		{desc: "floats", a: OfFloat(1.5), b: OfFloat(1.5), equal: true},
		{desc: "strings", a: OfString("a"), b: OfString("a"), equal: true},
		{desc: "objects", a: OfObject(9), b: OfObject(9), equal: true},
		{desc: "vectors", a: OfVector(Vec3{1, 2, 3}), b: OfVector(Vec3{1, 2, 3}), equal: true},
		{desc: "differing vectors", a: OfVector(Vec3{1, 2, 3}), b: OfVector(Vec3{1, 2, 4}), equal: false},
		{desc: "tag mismatch", a: OfInt(1), b: OfFloat(1), equal: false},
		{desc: "nulls", a: OfNull(), b: OfNull(), equal: true},
		{desc: "shared effect handle", a: OfEffect(shared), b: OfEffect(shared), equal: true},
		{
			desc:  "distinct effect handles with equal payloads",
			a:     OfEffect(&testEffect{strength: 3}),
			b:     OfEffect(&testEffect{strength: 3}),
			equal: false,
		},
		{desc: "event vs effect handle", a: OfEvent(shared), b: OfEffect(shared), equal: false},
	}

	for _, tc := range testcases {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.equal, tc.a.Equal(tc.b))
			assert.Equal(t, tc.equal, tc.b.Equal(tc.a))
		})
	}
}

func TestVariable_DiagnosticIDs(t *testing.T) {
	t.Parallel()
	a, b := OfInt(1), OfInt(1)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, a.Equal(b), "ids never participate in equality")
}

func TestVariable_String(t *testing.T) {
	t.Parallel()
	assert.Contains(t, OfInt(42).String(), ":42")
	assert.Contains(t, OfString("hi").String(), `:"hi"`)
	assert.Contains(t, OfObject(7).String(), ":7")
	assert.Equal(t, "void", OfNull().String())
}
