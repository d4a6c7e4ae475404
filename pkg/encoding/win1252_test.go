package encoding

import (
	"bytes"
	"testing"
)

func TestFromUTF8ConvertsAccents(t *testing.T) {
	got, err := FromUTF8([]byte("Ana Muñoz"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// ñ is a single 0xF1 byte in Windows-1252
	if !bytes.Contains(got, []byte{0xF1}) {
		t.Fatalf("expected code page byte for n-tilde, got %v", got)
	}
	if len(got) != len("Ana Muñoz")-1 {
		t.Fatalf("unexpected encoded length %d", len(got))
	}
}

func TestFromUTF8PassesASCIIThrough(t *testing.T) {
	in := []byte("OrderId,CustomerName\n1,Juan Perez\n")
	got, err := FromUTF8(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, in) {
		t.Fatalf("ASCII body must be byte-identical, got %q", got)
	}
}

func TestFromUTF8EmptyInput(t *testing.T) {
	got, err := FromUTF8(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty output, got %v", got)
	}
}
