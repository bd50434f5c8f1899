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

package resolver

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/walle/targz"

	"github.com/reprotoc/reprotoc/internal/source"
	"github.com/reprotoc/reprotoc/internal/version"
)

// cacheTTL is the default staleness window for a missing-package cache
// entry, per spec.md §4.5.
const cacheTTL = 60 * time.Second

// Index is the published `package -> versions` directory of a repository,
// in the same TOML-configuration style the teacher reads `.sidekick.toml`
// with (internal/config/config.go).
type Index struct {
	Packages map[string][]string `toml:"packages"`
}

// ParseIndex decodes a repository index file.
func ParseIndex(contents []byte) (*Index, error) {
	var idx Index
	if err := toml.Unmarshal(contents, &idx); err != nil {
		return nil, fmt.Errorf("parsing repository index: %w", err)
	}
	return &idx, nil
}

func (idx *Index) versions(pkg []string) ([]version.Version, error) {
	raw, ok := idx.Packages[strings.Join(pkg, ".")]
	if !ok {
		return nil, nil
	}
	out := make([]version.Version, 0, len(raw))
	for _, s := range raw {
		v, err := version.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid published version %q for %q: %w", s, strings.Join(pkg, "."), err)
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[j].Less(out[i]) })
	return out, nil
}

// ObjectStore resolves a (package, version) pair to a source handle,
// downloading and unpacking the published archive into baseDir on a cache
// miss. The archive format (.tar.gz) and unpack step are grounded on the
// teacher's own googleapis-archive update flow (internal/config/config.go,
// UpdateRootConfig/getSha256), generalized from "one pinned commit" to
// "any (package, version) against a published base URL".
type ObjectStore struct {
	BaseURL string // e.g. "https://repository.example.com/archives"
	BaseDir string // e.g. "$REPROTO_HOME/cache"
	Client  *http.Client

	missTimes map[string]time.Time
}

func NewObjectStore(baseURL, baseDir string) *ObjectStore {
	return &ObjectStore{BaseURL: baseURL, BaseDir: baseDir, Client: http.DefaultClient, missTimes: map[string]time.Time{}}
}

func (o *ObjectStore) cacheKey(pkg []string, v version.Version) string {
	return strings.Join(pkg, ".") + "@" + v.String()
}

// Fetch resolves pkg at v to a Source, using the on-disk cache under BaseDir
// when present, downloading the archive otherwise. A cache miss recorded
// less than cacheTTL ago is not retried.
func (o *ObjectStore) Fetch(pkg []string, v version.Version) (*source.Source, error) {
	key := o.cacheKey(pkg, v)
	dir := filepath.Join(o.BaseDir, strings.Join(pkg, string(filepath.Separator)), v.String())
	file := filepath.Join(dir, filepath.Join(pkg...)+SchemaExtension)

	if bytes, err := os.ReadFile(file); err == nil {
		return source.New(key, file, bytes), nil
	}

	if missed, ok := o.missTimes[key]; ok && time.Since(missed) < cacheTTL {
		return nil, nil
	}

	archiveURL := fmt.Sprintf("%s/%s/%s.tar.gz", o.BaseURL, strings.Join(pkg, "/"), v.String())
	slog.Debug("downloading package archive", "package", strings.Join(pkg, "."), "version", v.String(), "url", archiveURL)

	tmp, err := os.CreateTemp("", "reprotoc-archive-*.tar.gz")
	if err != nil {
		return nil, fmt.Errorf("creating archive temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	resp, err := o.Client.Get(archiveURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", archiveURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		o.missTimes[key] = time.Now()
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("downloading %s: http status %s", archiveURL, resp.Status)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		return nil, fmt.Errorf("saving archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir %s: %w", dir, err)
	}
	if err := targz.Extract(tmp.Name(), dir); err != nil {
		return nil, fmt.Errorf("extracting %s: %w", archiveURL, err)
	}

	bytes, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading extracted schema %s: %w", file, err)
	}
	return source.New(key, file, bytes), nil
}

// RepositoryResolver is the (Index, ObjectStore) Resolver variant of
// spec.md §4.5.
type RepositoryResolver struct {
	Index *Index
	Store *ObjectStore
}

func NewRepositoryResolver(idx *Index, store *ObjectStore) *RepositoryResolver {
	return &RepositoryResolver{Index: idx, Store: store}
}

func (r *RepositoryResolver) Resolve(required RequiredPackage) ([]Resolved, error) {
	versions, err := r.Index.versions(required.Package)
	if err != nil {
		return nil, err
	}
	var out []Resolved
	for _, v := range versions {
		if !required.Range.Matches(v) {
			continue
		}
		src, err := r.Store.Fetch(required.Package, v)
		if err != nil {
			return nil, err
		}
		if src == nil {
			continue
		}
		out = append(out, Resolved{Version: &v, Source: src})
	}
	return out, nil
}

func (r *RepositoryResolver) ResolveByPrefix(prefix []string) ([]ResolvedByPrefix, error) {
	p := strings.Join(prefix, ".")
	var out []ResolvedByPrefix
	for pkgName, rawVersions := range r.Index.Packages {
		if pkgName != p && !strings.HasPrefix(pkgName, p+".") {
			continue
		}
		if len(rawVersions) == 0 {
			continue
		}
		versions, err := r.Index.versions(strings.Split(pkgName, "."))
		if err != nil {
			return nil, err
		}
		src, err := r.Store.Fetch(strings.Split(pkgName, "."), versions[0])
		if err != nil {
			return nil, err
		}
		if src == nil {
			continue
		}
		out = append(out, ResolvedByPrefix{Package: strings.Split(pkgName, "."), Source: src})
	}
	return out, nil
}
