package unit

import (
	"bytes"
	"testing"

	audit "caregate/contexts/compliance/audit-service"
	auditqueries "caregate/contexts/compliance/audit-service/application/queries"
	"caregate/contexts/compliance/audit-service/ports"
	"caregate/internal/platform/fieldcipher"
	"caregate/internal/shared/authz"
)

func testCipher(t *testing.T) *fieldcipher.Cipher {
	t.Helper()
	cipher, err := fieldcipher.New(fieldcipher.Keys{
		Encryption: bytes.Repeat([]byte{0x11}, fieldcipher.KeySize),
		Signing:    bytes.Repeat([]byte{0x22}, fieldcipher.KeySize),
	})
	if err != nil {
		t.Fatalf("cipher setup failed: %v", err)
	}
	return cipher
}

func newAuditModule(t *testing.T) audit.Module {
	t.Helper()
	return audit.NewInMemoryModule(testCipher(t), nil)
}

// countTrail counts trail entries for an action without opening them;
// the sealed entry keeps its action in clear for exactly this kind of
// filtering.
func auditQueryFor(action string, actor authz.Actor) auditqueries.QueryEntriesQuery {
	return auditqueries.QueryEntriesQuery{
		Actor:  actor,
		Filter: ports.QueryFilter{Action: action},
	}
}

func countTrail(module audit.Module, action string) int {
	count := 0
	for _, entry := range module.Store.Entries() {
		if entry.Action == action {
			count++
		}
	}
	return count
}
