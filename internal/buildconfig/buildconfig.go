// Package buildconfig loads a per-crate manifest (spec.md names manifest
// loading an out-of-core external surface utility; this ambient plumbing
// around it is still real, wired code, SPEC_FULL.md §10). Rust-like
// source trees name this file orizon.toml; it carries a toolchain
// version constraint checked before the pipeline runs, grounded on the
// teacher's internal/packagemanager use of github.com/Masterminds/semver/v3
// for the same shape of constraint ("Find locates a package version
// satisfying the constraint").
package buildconfig

import (
	"context"
	"fmt"

	"github.com/BurntSushi/toml"
	semver "github.com/Masterminds/semver/v3"
	"github.com/viant/afs"
)

// CompilerVersion is the current toolchain's own version, checked against
// a crate's Toolchain constraint at load time.
var CompilerVersion = semver.MustParse("0.4.0")

// Manifest is the parsed shape of orizon.toml.
type Manifest struct {
	Package struct {
		Name      string `toml:"name"`
		Version   string `toml:"version"`
		Toolchain string `toml:"toolchain"`
	} `toml:"package"`

	Dependencies map[string]string `toml:"dependencies"`
}

// Load parses raw TOML bytes into a Manifest and checks its toolchain
// constraint, if any, against CompilerVersion.
func Load(data []byte) (*Manifest, error) {
	var m Manifest
	if _, err := toml.Decode(string(data), &m); err != nil {
		return nil, fmt.Errorf("buildconfig: parse orizon.toml: %w", err)
	}

	if err := m.checkToolchain(); err != nil {
		return nil, err
	}

	return &m, nil
}

func (m *Manifest) checkToolchain() error {
	if m.Package.Toolchain == "" {
		return nil
	}

	c, err := semver.NewConstraint(m.Package.Toolchain)
	if err != nil {
		return fmt.Errorf("buildconfig: invalid toolchain constraint %q: %w", m.Package.Toolchain, err)
	}

	if !c.Check(CompilerVersion) {
		return fmt.Errorf("buildconfig: compiler version %s does not satisfy toolchain constraint %q required by %q",
			CompilerVersion, m.Package.Toolchain, m.Package.Name)
	}

	return nil
}

// LoadFromURL reads orizon.toml through github.com/viant/afs, so the same
// loader works against local disk, embedded, or remote-mounted crate
// roots without the driver special-casing a transport (SPEC_FULL.md §10),
// the same viant/afs.Service.DownloadWithURL shape the teacher's own
// analyzer uses to pull package manifests.
func LoadFromURL(ctx context.Context, url string) (*Manifest, error) {
	fs := afs.New()

	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("buildconfig: download %s: %w", url, err)
	}

	return Load(data)
}
