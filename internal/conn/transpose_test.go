package conn

import (
	"bytes"
	"testing"
)

func TestTransposeRoundTrip(t *testing.T) {
	cases := []struct {
		m, n int
	}{
		{2, 2}, {2, 3}, {3, 2}, {1, 5}, {5, 1}, {4, 4}, {3, 7},
	}
	for _, c := range cases {
		buf := make([]byte, c.m*c.n)
		for i := range buf {
			buf[i] = byte(i + 1)
		}
		original := append([]byte{}, buf...)

		Transpose(buf, c.m, c.n, 1)
		Transpose(buf, c.n, c.m, 1)

		if !bytes.Equal(buf, original) {
			t.Errorf("m=%d n=%d: double transpose did not recover original: got %v want %v", c.m, c.n, buf, original)
		}
	}
}

func TestTransposeKnown2x2(t *testing.T) {
	buf := []byte{0x10, 0x11, 0x20, 0x21}
	Transpose(buf, 2, 2, 1)
	want := []byte{0x10, 0x20, 0x11, 0x21}
	if !bytes.Equal(buf, want) {
		t.Errorf("got %v want %v", buf, want)
	}
}

func TestTransposeIdentityOnDegenerateShapes(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	original := append([]byte{}, buf...)
	Transpose(buf, 1, 5, 1)
	if !bytes.Equal(buf, original) {
		t.Errorf("m=1 should be identity, got %v", buf)
	}
	Transpose(buf, 5, 1, 1)
	if !bytes.Equal(buf, original) {
		t.Errorf("n=1 should be identity, got %v", buf)
	}
}

func TestTransposeMultiByteElements(t *testing.T) {
	// 2x2 matrix of 2-byte elements: [[AB,CD],[EF,GH]]
	buf := []byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF, 0x11, 0x22}
	Transpose(buf, 2, 2, 2)
	// transpose of [[AB,CD],[EF,GH]] is [[AB,EF],[CD,GH]]
	want := []byte{0xAA, 0xBB, 0xEE, 0xFF, 0xCC, 0xDD, 0x11, 0x22}
	if !bytes.Equal(buf, want) {
		t.Errorf("got %v want %v", buf, want)
	}
}
