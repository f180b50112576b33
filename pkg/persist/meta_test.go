package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveLoadMetaRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.meta")
	want := WorldMeta{
		WorldSeedRaw: 12345,
		RNGSeedRaw:   67890,
		SpawnX:       10,
		SpawnY:       70,
		SpawnZ:       -5,
		SpawnSet:     true,
	}
	if err := SaveMeta(path, want); err != nil {
		t.Fatalf("SaveMeta: %v", err)
	}
	got, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("LoadMeta: %v", err)
	}
	if got != want {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
}

func TestLoadMetaMissingFileIsBenign(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.meta")
	m, err := LoadMeta(path)
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if m != (WorldMeta{}) {
		t.Errorf("missing file should yield zero value, got %+v", m)
	}
}

func TestLoadMetaMalformedLineErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.meta")
	if err := os.WriteFile(path, []byte(metaHeader+"\nnotakeyvalueline\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMeta(path); err == nil {
		t.Error("expected an error for a malformed line")
	}
}

func TestLoadMetaMissingHeaderErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.meta")
	if err := os.WriteFile(path, []byte("WORLD_SEED_RAW=1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadMeta(path); err == nil {
		t.Error("expected an error for a missing header")
	}
}
