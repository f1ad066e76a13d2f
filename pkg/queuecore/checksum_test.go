package queuecore

import (
	"encoding/hex"
	"testing"
)

// TestNewHasher_MD5 verifies MD5 hash of "hello" equals known value
func TestNewHasher_MD5(t *testing.T) {
	t.Helper()
	hasher, err := NewHasher(ChecksumMD5)
	if err != nil {
		t.Fatalf("NewHasher(ChecksumMD5) failed: %v", err)
	}

	hasher.Write([]byte("hello"))
	actual := hasher.Sum(nil)

	// MD5("hello") = "5d41402abc4b2a76b9719d911017c592"
	expected, _ := hex.DecodeString("5d41402abc4b2a76b9719d911017c592")

	if !bytesEqual(actual, expected) {
		t.Errorf("MD5 hash mismatch: got %x, want %x", actual, expected)
	}
}

// TestNewHasher_SHA256 verifies SHA256 hash of "hello"
func TestNewHasher_SHA256(t *testing.T) {
	t.Helper()
	hasher, err := NewHasher(ChecksumSHA256)
	if err != nil {
		t.Fatalf("NewHasher(ChecksumSHA256) failed: %v", err)
	}

	hasher.Write([]byte("hello"))
	actual := hasher.Sum(nil)

	// SHA256("hello") = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	expected, _ := hex.DecodeString("2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824")

	if !bytesEqual(actual, expected) {
		t.Errorf("SHA256 hash mismatch: got %x, want %x", actual, expected)
	}
}

// TestNewHasher_SHA512 verifies SHA512 hash of "hello"
func TestNewHasher_SHA512(t *testing.T) {
	t.Helper()
	hasher, err := NewHasher(ChecksumSHA512)
	if err != nil {
		t.Fatalf("NewHasher(ChecksumSHA512) failed: %v", err)
	}

	hasher.Write([]byte("hello"))
	actual := hasher.Sum(nil)

	// SHA512("hello") starts with "9b71d224bd62f378..."
	expectedPrefix, _ := hex.DecodeString("9b71d224bd62f378")

	if len(actual) != 64 {
		t.Errorf("SHA512 hash length: got %d, want 64", len(actual))
	}

	if !bytesEqual(actual[:8], expectedPrefix) {
		t.Errorf("SHA512 hash prefix mismatch: got %x, want %x", actual[:8], expectedPrefix)
	}
}

// TestNewHasher_InvalidAlgorithm verifies error returned for invalid algorithm
func TestNewHasher_InvalidAlgorithm(t *testing.T) {
	t.Helper()
	_, err := NewHasher(ChecksumAlgorithm("invalid"))
	if err == nil {
		t.Error("NewHasher with invalid algorithm should return error")
	}
}

// TestSelectBestAlgorithm_PrefersSHA512 tests algorithm selection prefers strongest
func TestSelectBestAlgorithm_PrefersSHA512(t *testing.T) {
	t.Helper()
	tests := []struct {
		name      string
		checksums []ExpectedChecksum
		want      ChecksumAlgorithm
	}{
		{
			name: "SHA512 preferred over SHA256",
			checksums: []ExpectedChecksum{
				{Algorithm: ChecksumSHA256, Value: []byte("test")},
				{Algorithm: ChecksumSHA512, Value: []byte("test")},
			},
			want: ChecksumSHA512,
		},
		{
			name: "SHA512 preferred over MD5",
			checksums: []ExpectedChecksum{
				{Algorithm: ChecksumMD5, Value: []byte("test")},
				{Algorithm: ChecksumSHA512, Value: []byte("test")},
			},
			want: ChecksumSHA512,
		},
		{
			name: "SHA256 preferred over MD5",
			checksums: []ExpectedChecksum{
				{Algorithm: ChecksumMD5, Value: []byte("test")},
				{Algorithm: ChecksumSHA256, Value: []byte("test")},
			},
			want: ChecksumSHA256,
		},
		{
			name: "MD5 when only option",
			checksums: []ExpectedChecksum{
				{Algorithm: ChecksumMD5, Value: []byte("test")},
			},
			want: ChecksumMD5,
		},
		{
			name: "order doesn't matter",
			checksums: []ExpectedChecksum{
				{Algorithm: ChecksumMD5, Value: []byte("test")},
				{Algorithm: ChecksumSHA256, Value: []byte("test")},
				{Algorithm: ChecksumSHA512, Value: []byte("test")},
			},
			want: ChecksumSHA512,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectBestAlgorithm(tt.checksums)
			if got != tt.want {
				t.Errorf("SelectBestAlgorithm() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDefaultChecksumConfig tests default configuration
func TestDefaultChecksumConfig(t *testing.T) {
	t.Helper()
	config := DefaultChecksumConfig()

	if !config.Enabled {
		t.Error("DefaultChecksumConfig().Enabled should be true")
	}

	if !config.FailOnMismatch {
		t.Error("DefaultChecksumConfig().FailOnMismatch should be true")
	}
}

// Helper function to compare byte slices
func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
