package fieldcipher

import (
	"bytes"
	"errors"
	"testing"
)

func testCipher(t *testing.T) *Cipher {
	t.Helper()
	c, err := New(Keys{
		Encryption: bytes.Repeat([]byte{0x11}, KeySize),
		Signing:    bytes.Repeat([]byte{0x22}, KeySize),
	})
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}
	return c
}

func TestSealOpenRoundTrip(t *testing.T) {
	c := testCipher(t)

	cases := [][]byte{
		[]byte("Adaeze Okafor"),
		[]byte("08012345678"),
		[]byte(`{"street":"12 Marina Rd","city":"Lagos"}`),
		[]byte(""),
		[]byte(`{"bloodType":"O+","allergies":["penicillin"]}`),
	}
	for _, plaintext := range cases {
		sealed, err := c.Seal(plaintext)
		if err != nil {
			t.Fatalf("seal: %v", err)
		}
		if bytes.Contains(sealed, plaintext) && len(plaintext) > 0 {
			t.Fatalf("sealed value leaks plaintext")
		}
		opened, err := c.Open(sealed)
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		if !bytes.Equal(opened, plaintext) {
			t.Fatalf("round trip mismatch: got %q want %q", opened, plaintext)
		}
	}
}

func TestOpenRejectsEveryFlippedByte(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.Seal([]byte("sensitive clinical notes"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}

	for i := range sealed {
		tampered := append([]byte(nil), sealed...)
		tampered[i] ^= 0x01
		if _, err := c.Open(tampered); !errors.Is(err, ErrIntegrityViolation) {
			t.Fatalf("byte %d: expected integrity violation, got %v", i, err)
		}
	}
}

func TestOpenRejectsTruncation(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	for _, n := range []int{0, 1, overhead - 1, len(sealed) - 1} {
		if _, err := c.Open(sealed[:n]); !errors.Is(err, ErrIntegrityViolation) {
			t.Fatalf("length %d: expected integrity violation, got %v", n, err)
		}
	}
}

func TestOpenRejectsWrongSigningKey(t *testing.T) {
	c := testCipher(t)
	other, err := New(Keys{
		Encryption: bytes.Repeat([]byte{0x11}, KeySize),
		Signing:    bytes.Repeat([]byte{0x33}, KeySize),
	})
	if err != nil {
		t.Fatalf("new cipher: %v", err)
	}

	sealed, err := c.Seal([]byte("payload"))
	if err != nil {
		t.Fatalf("seal: %v", err)
	}
	if _, err := other.Open(sealed); !errors.Is(err, ErrIntegrityViolation) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
}

func TestSealFieldsPassesUndesignatedThrough(t *testing.T) {
	c := testCipher(t)

	record := map[string][]byte{
		"name":  []byte("Adaeze Okafor"),
		"phone": []byte("08012345678"),
		"email": []byte("adaeze@example.com"),
	}
	sealed, err := c.SealFields(record, []string{"name", "phone"})
	if err != nil {
		t.Fatalf("seal fields: %v", err)
	}
	if !bytes.Equal(sealed["email"], record["email"]) {
		t.Fatalf("undesignated field was modified")
	}
	if bytes.Equal(sealed["name"], record["name"]) {
		t.Fatalf("designated field was not sealed")
	}

	opened, err := c.OpenFields(sealed, []string{"name", "phone"})
	if err != nil {
		t.Fatalf("open fields: %v", err)
	}
	for name, want := range record {
		if !bytes.Equal(opened[name], want) {
			t.Fatalf("field %s mismatch after round trip", name)
		}
	}
}

func TestOpenFieldsFailsClosed(t *testing.T) {
	c := testCipher(t)

	sealed, err := c.SealFields(map[string][]byte{
		"name":  []byte("Adaeze Okafor"),
		"notes": []byte("post-op review"),
	}, []string{"name", "notes"})
	if err != nil {
		t.Fatalf("seal fields: %v", err)
	}
	sealed["notes"][len(sealed["notes"])-1] ^= 0x01

	if _, err := c.OpenFields(sealed, []string{"name", "notes"}); !errors.Is(err, ErrIntegrityViolation) {
		t.Fatalf("expected integrity violation, got %v", err)
	}
}

func TestNewRejectsShortKeys(t *testing.T) {
	if _, err := New(Keys{Encryption: []byte("short"), Signing: bytes.Repeat([]byte{1}, KeySize)}); err == nil {
		t.Fatal("expected error for short encryption key")
	}
	if _, err := New(Keys{Encryption: bytes.Repeat([]byte{1}, KeySize), Signing: nil}); err == nil {
		t.Fatal("expected error for missing signing key")
	}
}
