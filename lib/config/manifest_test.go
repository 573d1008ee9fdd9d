// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseManifestAcceptsComments(t *testing.T) {
	manifest, err := ParseManifest([]byte(`{
  // Shown in the title bar.
  "name": "MyApp",
  /* bumped by the release script */
  "version": "1.4.2",
}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	if manifest.Name != "MyApp" || manifest.Version != "1.4.2" {
		t.Fatalf("got %+v", manifest)
	}
}

func TestParseManifestRequiresVersion(t *testing.T) {
	if _, err := ParseManifest([]byte(`{"name": "MyApp", "version": "  "}`)); err == nil {
		t.Fatal("expected error for blank version")
	}
	if _, err := ParseManifest([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed manifest")
	}
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.jsonc")
	if err := os.WriteFile(path, []byte(`{"name":"MyApp","version":"2.0.0"}`), 0644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Version != "2.0.0" {
		t.Fatalf("Version = %q", manifest.Version)
	}

	if _, err := LoadManifest(filepath.Join(t.TempDir(), "absent.jsonc")); err == nil {
		t.Fatal("expected error for a missing manifest")
	}
}
