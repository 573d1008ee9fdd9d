// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeebo/blake3"
)

func sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

func writeFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, content, 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestHashFileMatchesBLAKE3(t *testing.T) {
	content := []byte("deskbridge backend")
	got, err := HashFile(writeFile(t, "backend", content))
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := sum(content); got != want {
		t.Errorf("HashFile = %s, want %s", got, want)
	}
}

func TestHashFileLarge(t *testing.T) {
	content := make([]byte, 256*1024)
	for i := range content {
		content[i] = byte(i % 251)
	}
	got, err := HashFile(writeFile(t, "large", content))
	if err != nil {
		t.Fatalf("HashFile: %v", err)
	}
	if want := sum(content); got != want {
		t.Errorf("HashFile(large) = %s, want %s", got, want)
	}
}

func TestHashFileDifferentContent(t *testing.T) {
	first, err := HashFile(writeFile(t, "a", []byte("content A")))
	if err != nil {
		t.Fatalf("HashFile(a): %v", err)
	}
	second, err := HashFile(writeFile(t, "b", []byte("content B")))
	if err != nil {
		t.Fatalf("HashFile(b): %v", err)
	}
	if first == second {
		t.Error("different files should produce different digests")
	}
}

func TestHashFileNonexistent(t *testing.T) {
	if _, err := HashFile(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("HashFile should fail for a missing file")
	}
}

func TestDigestFormatting(t *testing.T) {
	digest := sum([]byte("format"))
	if length := len(digest.String()); length != 64 {
		t.Errorf("String length = %d, want 64", length)
	}
	if short := digest.Short(); short != digest.String()[:12] {
		t.Errorf("Short = %q, want prefix of %q", short, digest.String())
	}
	if digest.IsZero() {
		t.Error("computed digest reported as zero")
	}
	if !(Digest{}).IsZero() {
		t.Error("zero digest not reported as zero")
	}
}

func TestParseDigestRoundTrip(t *testing.T) {
	original := sum([]byte("round-trip"))
	parsed, err := ParseDigest(FormatDigest(original))
	if err != nil {
		t.Fatalf("ParseDigest: %v", err)
	}
	if parsed != original {
		t.Errorf("round trip = %s, want %s", parsed, original)
	}
}

func TestParseDigestInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not hex", "zz"},
		{"too short", "abcd"},
		{"empty", ""},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ParseDigest(test.input); err == nil {
				t.Errorf("ParseDigest(%q) should fail", test.input)
			}
		})
	}
}
