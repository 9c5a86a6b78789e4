package utils

import (
	"strings"
	"testing"
)

func TestGetUsername(t *testing.T) {
	username, err := GetUsername()
	if err != nil {
		t.Fatalf("GetUsername failed: %v", err)
	}
	if username == "" {
		t.Fatal("Expected non-empty username")
	}
}

func TestGetHostname(t *testing.T) {
	hostname, err := GetHostname()
	if err != nil {
		t.Fatalf("GetHostname failed: %v", err)
	}
	if hostname == "" {
		t.Fatal("Expected non-empty hostname")
	}
}

func TestPassphraseReader(t *testing.T) {
	r := NewPassphraseReader(strings.NewReader("old secret\r\nnew secret\n\nlast"))

	want := []string{"old secret", "new secret", "", "last"}
	for i, w := range want {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("Next() #%d failed: %v", i, err)
		}
		if string(got) != w {
			t.Errorf("Next() #%d = %q, want %q", i, got, w)
		}
	}

	if _, err := r.Next(); err == nil {
		t.Error("Expected error once input is exhausted")
	}
}

func TestPassphraseReaderEmptyInput(t *testing.T) {
	if _, err := NewPassphraseReader(strings.NewReader("")).Next(); err == nil {
		t.Error("Expected error for empty stdin")
	}
}
