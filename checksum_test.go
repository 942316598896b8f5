package jarcache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestChecksumString(t *testing.T) {
	t.Parallel()

	sum := Checksum{Hi: 0x1122334455667788, Lo: 0xAABBCCDDEEFF0011}
	if got, want := sum.String(), "1122334455667788AABBCCDDEEFF0011"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}

	if got, want := (Checksum{}).String(), "00000000000000000000000000000000"; got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParseChecksumRoundTrip(t *testing.T) {
	t.Parallel()

	want := Checksum{Hi: 0x0000000000000001, Lo: 0xFFFFFFFFFFFFFFFF}
	got, err := ParseChecksum(want.String())
	if err != nil {
		t.Fatalf("ParseChecksum() error = %v", err)
	}
	if got != want {
		t.Fatalf("ParseChecksum() = %v, want %v", got, want)
	}
}

func TestParseChecksumInvalid(t *testing.T) {
	t.Parallel()

	for _, s := range []string{
		"",
		"1122",
		"1122334455667788AABBCCDDEEFF001",   // 31 digits
		"1122334455667788AABBCCDDEEFF00112", // 33 digits
		"ZZ22334455667788AABBCCDDEEFF0011",  // not hex
	} {
		if _, err := ParseChecksum(s); err == nil {
			t.Fatalf("ParseChecksum(%q) error = nil, want error", s)
		}
	}
}

func TestChecksumOfDeterministic(t *testing.T) {
	t.Parallel()

	content := []byte("the quick brown fox")

	a, err := ChecksumOf(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("ChecksumOf() error = %v", err)
	}
	b, err := ChecksumOf(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("ChecksumOf() error = %v", err)
	}
	if a != b {
		t.Fatalf("ChecksumOf() not deterministic: %v != %v", a, b)
	}

	other, err := ChecksumOf(bytes.NewReader([]byte("different content")))
	if err != nil {
		t.Fatalf("ChecksumOf() error = %v", err)
	}
	if a == other {
		t.Fatalf("ChecksumOf() collided for distinct content: %v", a)
	}
}

func TestChecksumOfFile(t *testing.T) {
	t.Parallel()

	content := []byte("file content")
	path := filepath.Join(t.TempDir(), "content.jar")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	fromFile, err := ChecksumOfFile(path)
	if err != nil {
		t.Fatalf("ChecksumOfFile() error = %v", err)
	}
	fromReader, err := ChecksumOf(bytes.NewReader(content))
	if err != nil {
		t.Fatalf("ChecksumOf() error = %v", err)
	}
	if fromFile != fromReader {
		t.Fatalf("ChecksumOfFile() = %v, want %v", fromFile, fromReader)
	}
}

func TestChecksumOfFileMissing(t *testing.T) {
	t.Parallel()

	if _, err := ChecksumOfFile(filepath.Join(t.TempDir(), "absent.jar")); err == nil {
		t.Fatal("ChecksumOfFile() error = nil, want error")
	}
}
