// SPDX-FileCopyrightText: © 2021 The malina authors <https://github.com/golangee/malina/blob/main/AUTHORS>
// SPDX-License-Identifier: Apache-2.0

package parser

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/golangee/malina/ast"
	"golang.org/x/mod/semver"
)

// ManifestName is the file name of a project manifest.
const ManifestName = "malina.mod"

var manifestLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "String", Pattern: `"(\\"|[^"])*"`},
	{Name: "SemVer", Pattern: `v\d+\.\d+\.\d+(-[\w.]+)?`},
	{Name: "Int", Pattern: `\d+`},
	{Name: "Ident", Pattern: `[a-zA-Z_]\w*`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var manifestParser = participle.MustBuild[manifestGrammar](
	participle.Lexer(manifestLexer),
	participle.Elide("Comment", "Whitespace"),
	participle.Unquote("String"),
	participle.UseLookahead(1),
)

// SemVer is a semantic version like v1.2.3.
type SemVer string

func (v *SemVer) Capture(values []string) error {
	if len(values) != 1 || !semver.IsValid(values[0]) {
		return fmt.Errorf("invalid semantic version: %v", values)
	}

	*v = SemVer(values[0])

	return nil
}

type formatName ast.Format

func (f *formatName) Capture(values []string) error {
	if len(values) != 1 {
		return fmt.Errorf("expected a single format name")
	}

	format, err := ast.ParseFormat(values[0])
	if err != nil {
		return err
	}

	*f = formatName(format)

	return nil
}

type manifestGrammar struct {
	Version  SemVer            `"malina" @SemVer`
	Settings []*settingGrammar `@@*`
}

type settingGrammar struct {
	Source *string     `  "source" @String`
	Output *string     `| "output" @String`
	Format *formatName `| "format" @Ident`
	Schema *string     `| "schema" @String`
	Depth  *int        `| "depth" @Int`
}

// A Manifest configures the compilation of a project directory.
type Manifest struct {
	// File is the path of the manifest itself.
	File string
	// Dir contains the manifest. Relative paths are resolved against it.
	Dir     string
	Version SemVer
	// Sources are the directories or files to compile. Empty means Dir.
	Sources []string
	Output  string
	// Format overrides the format of sources with unknown extensions.
	Format *ast.Format
	Schema string
	// Depth is the maximum alias expansion depth, 0 means the default.
	Depth int
}

// ParseManifest reads a manifest from r.
func ParseManifest(filename string, r io.Reader) (*Manifest, error) {
	g, err := manifestParser.Parse(filename, r)
	if err != nil {
		return nil, fmt.Errorf("unable to parse manifest: %w", err)
	}

	m := &Manifest{
		File:    filename,
		Dir:     filepath.Dir(filename),
		Version: g.Version,
	}

	for _, s := range g.Settings {
		switch {
		case s.Source != nil:
			m.Sources = append(m.Sources, *s.Source)
		case s.Output != nil:
			m.Output = *s.Output
		case s.Format != nil:
			f := ast.Format(*s.Format)
			m.Format = &f
		case s.Schema != nil:
			m.Schema = *s.Schema
		case s.Depth != nil:
			if *s.Depth < 1 {
				return nil, fmt.Errorf("%s: depth must be positive", filename)
			}

			m.Depth = *s.Depth
		}
	}

	return m, nil
}

// LoadManifest parses the manifest of the given directory.
func LoadManifest(dir string) (*Manifest, error) {
	fname := filepath.Join(dir, ManifestName)

	file, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("unable to open: %w", err)
	}

	defer file.Close()

	return ParseManifest(fname, file)
}

// Check fails if the manifest requires a newer compiler.
func (m *Manifest) Check(compilerVersion string) error {
	if semver.Compare(string(m.Version), compilerVersion) > 0 {
		return fmt.Errorf("%s requires malina %s but this is %s", m.File, m.Version, compilerVersion)
	}

	return nil
}

// Path resolves p relative to the manifest directory.
func (m *Manifest) Path(p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}

	return filepath.Join(m.Dir, p)
}

// SourcePaths returns the resolved source locations.
func (m *Manifest) SourcePaths() []string {
	if len(m.Sources) == 0 {
		return []string{m.Dir}
	}

	res := make([]string, 0, len(m.Sources))
	for _, s := range m.Sources {
		res = append(res, m.Path(s))
	}

	return res
}
