// Copyright 2025 The reprotoc Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command reprotoc is the thin CLI entry point: load a pre-built manifest
// (flag parsing of a richer on-disk manifest format is out of scope, per
// spec.md), build a resolver over its path roots, import every requested
// package, render any diagnostics, and run the reference demo backend over
// the translated result. Grounded on the teacher's cmd/main.go flag-parsing
// shape (flag.String/flag.Func + log.Fatal on a usage error).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/reprotoc/reprotoc/internal/backend/demo"
	"github.com/reprotoc/reprotoc/internal/env"
	"github.com/reprotoc/reprotoc/internal/flavor"
	"github.com/reprotoc/reprotoc/internal/fsout"
	"github.com/reprotoc/reprotoc/internal/license"
	"github.com/reprotoc/reprotoc/internal/manifest"
	"github.com/reprotoc/reprotoc/internal/resolver"
	"github.com/reprotoc/reprotoc/internal/token"
	"github.com/reprotoc/reprotoc/internal/version"
)

func main() {
	var (
		paths     []string
		packages  []string
		out       = flag.String("out", "generated", "directory to write generated output into")
		maven     = flag.Bool("maven-preset", false, "apply the maven source-layout preset to every path root")
		initFile  = flag.Bool("init", false, "scaffold a .reprotoc.toml in -out describing the given paths/packages, instead of compiling")
		copyright = flag.String("copyright-year", "", "copyright year for the scaffolded .reprotoc.toml header")
	)
	flag.Func("path", "a filesystem root to search for packages (repeatable)", func(p string) error {
		paths = append(paths, p)
		return nil
	})
	flag.Func("package", "a dotted package name to compile (repeatable)", func(p string) error {
		packages = append(packages, p)
		return nil
	})
	flag.Parse()

	if len(paths) == 0 {
		log.Fatal("must provide at least one -path")
	}
	if len(packages) == 0 {
		log.Fatal("must provide at least one -package")
	}

	var presets []manifest.Preset
	if *maven {
		presets = append(presets, manifest.PresetMaven)
	}
	m := manifest.ApplyPresets(manifest.Manifest{Paths: paths, Packages: packages, Presets: presets})

	if *initFile {
		if err := scaffoldManifest(*out, m, *copyright); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := run(m, *out); err != nil {
		log.Fatal(err)
	}
}

// scaffoldManifest writes outDir/.reprotoc.toml: a license header followed
// by the resolved manifest, for a user to hand-edit into their own build
// configuration. Grounded on the teacher's config.WriteSidekickToml (header
// via internal/license, then a toml.Encoder over the config struct).
func scaffoldManifest(outDir string, m manifest.Manifest, copyrightYear string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(outDir, ".reprotoc.toml"))
	if err != nil {
		return err
	}
	defer f.Close()

	for _, line := range license.Header(copyrightYear) {
		if line == "" {
			fmt.Fprintln(f, "#")
		} else {
			fmt.Fprintf(f, "#%s\n", line)
		}
	}
	fmt.Fprintln(f)

	return toml.NewEncoder(f).Encode(m)
}

func run(m manifest.Manifest, outDir string) error {
	r := resolver.NewPathResolver(m.Paths...)
	e := env.New(r, defaultKeywords())

	anyRange, err := version.ParseRange("*")
	if err != nil {
		return err
	}

	for _, pkg := range m.Packages {
		required := resolver.RequiredPackage{Package: strings.Split(pkg, "."), Range: anyRange}
		if _, err := e.Import(required); err != nil {
			fmt.Print(e.DiagCtx.String())
			return fmt.Errorf("importing %s: %w", pkg, err)
		}
	}

	if e.DiagCtx.HasErrors() {
		fmt.Print(e.DiagCtx.String())
		return fmt.Errorf("compilation failed")
	}

	translated := e.Translate(flavor.CoreFlavor{})
	backend := demo.Backend{}
	return backend.Generate(translated, fsout.NewOSFilesystem(outDir))
}

// defaultKeywords is the keyword-safe rewrite table run installs for the
// compilation (a Scope created without a table has an empty one), built
// from the grammar's own reserved words
// (internal/token.Keywords) via their fixed "_"-prefix rewrite
// (token.KeywordSafe), per the original implementation's `keyword_safe`
// (lib/lexer/token.rs).
func defaultKeywords() map[string]string {
	out := make(map[string]string, len(token.Keywords))
	for word, kind := range token.Keywords {
		safe, _ := token.KeywordSafe(kind)
		out[word] = safe
	}
	return out
}
