package sim

import "github.com/google/uuid"

// IdentityFor derives the deterministic offline-mode 16-byte identity for a
// player name (spec §3 "16-byte identity"), the same "OfflinePlayer:<name>"
// UUIDv3 convention the teacher's offlineUUID used, reimplemented on
// google/uuid instead of a hand-rolled MD5 dance (grounded on
// dm-vev-adamant's use of google/uuid for entity identity).
func IdentityFor(name string) [16]byte {
	return [16]byte(uuid.NewMD5(uuid.NameSpaceDNS, []byte("OfflinePlayer:"+name)))
}
