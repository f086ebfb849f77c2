package buildconfig

import (
	"strings"
	"testing"
)

func TestLoadParsesManifest(t *testing.T) {
	data := []byte(`
[package]
name = "demo"
version = "0.1.0"
toolchain = ">=0.3.0, <0.5.0"

[dependencies]
other = "1.0"
`)

	m, err := Load(data)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if m.Package.Name != "demo" {
		t.Errorf("Name = %q, want demo", m.Package.Name)
	}

	if m.Dependencies["other"] != "1.0" {
		t.Errorf("Dependencies[other] = %q, want 1.0", m.Dependencies["other"])
	}
}

func TestLoadRejectsUnsatisfiedToolchain(t *testing.T) {
	data := []byte(`
[package]
name = "demo"
version = "0.1.0"
toolchain = ">=99.0.0"
`)

	_, err := Load(data)
	if err == nil {
		t.Fatal("expected a toolchain constraint error, got nil")
	}

	if !strings.Contains(err.Error(), "toolchain") {
		t.Errorf("error %q does not mention toolchain", err)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	_, err := Load([]byte("not = [valid"))
	if err == nil {
		t.Fatal("expected a parse error, got nil")
	}
}
