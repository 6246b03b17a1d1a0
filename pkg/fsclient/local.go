// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fsclient

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// LedgerFile is the name of the attribute ledger kept under the root
const LedgerFile = ".fsmutate.attrs.json"

// 🏷️ Attributes are the per-path properties a plain directory tree has no
// native place for
type Attributes struct {
	StoragePolicy string `json:"storage_policy,omitempty"`
	Replication   int16  `json:"replication,omitempty"`
	Owner         string `json:"owner,omitempty"`
	Group         string `json:"group,omitempty"`
	Cached        bool   `json:"cached,omitempty"`
	CachePool     string `json:"cache_pool,omitempty"`
}

// 💾 Local performs mutations against a directory tree on local disk.
// Paths are interpreted relative to the root and can never escape it.
type Local struct {
	root   string
	ledger string

	mu sync.Mutex
}

var _ Client = (*Local)(nil)

// 🏭 NewLocal creates a client rooted at the given directory
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Errorf("checking root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("root %s is not a directory", abs)
	}
	return &Local{
		root:   abs,
		ledger: filepath.Join(abs, LedgerFile),
	}, nil
}

// Root returns the absolute root directory
func (l *Local) Root() string {
	return l.root
}

// 🔒 resolve maps an index path onto the local tree
func (l *Local) resolve(path string) string {
	return filepath.Join(l.root, filepath.Clean("/"+path))
}

func (l *Local) stat(path string) (os.FileInfo, error) {
	info, err := os.Lstat(l.resolve(path))
	if os.IsNotExist(err) {
		return nil, errors.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, errors.Errorf("checking %s: %w", path, err)
	}
	return info, nil
}

// Attributes returns the recorded attributes of a path
func (l *Local) Attributes(path string) (Attributes, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attrs, err := l.load()
	if err != nil {
		return Attributes{}, err
	}
	return attrs[filepath.Clean("/"+path)], nil
}

func (l *Local) load() (map[string]Attributes, error) {
	attrs := map[string]Attributes{}
	data, err := os.ReadFile(l.ledger)
	if os.IsNotExist(err) {
		return attrs, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading attribute ledger: %w", err)
	}
	if err := json.Unmarshal(data, &attrs); err != nil {
		return nil, errors.Errorf("parsing attribute ledger: %w", err)
	}
	return attrs, nil
}

// save writes the ledger atomically (temp file + rename)
func (l *Local) save(attrs map[string]Attributes) error {
	data, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return errors.Errorf("encoding attribute ledger: %w", err)
	}

	tempPath := l.ledger + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return errors.Errorf("writing temp ledger: %w", err)
	}
	if err := os.Rename(tempPath, l.ledger); err != nil {
		os.Remove(tempPath)
		return errors.Errorf("renaming temp ledger: %w", err)
	}
	return nil
}

// 🔄 update applies fn to the attributes of an existing path and persists them
func (l *Local) update(path string, fn func(a *Attributes)) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.stat(path); err != nil {
		return err
	}

	attrs, err := l.load()
	if err != nil {
		return err
	}
	key := filepath.Clean("/" + path)
	a := attrs[key]
	fn(&a)
	attrs[key] = a
	return l.save(attrs)
}

func (l *Local) SetStoragePolicy(ctx context.Context, path, policy string) (bool, error) {
	if err := l.update(path, func(a *Attributes) { a.StoragePolicy = policy }); err != nil {
		return false, errors.Errorf("setting storage policy: %w", err)
	}
	zerolog.Ctx(ctx).Debug().Str("path", path).Str("policy", policy).Msg("storage policy set")
	return true, nil
}

func (l *Local) SetReplication(ctx context.Context, path string, replication int16) (bool, error) {
	info, err := l.stat(path)
	if err != nil {
		return false, errors.Errorf("setting replication: %w", err)
	}
	// replication only has meaning for files
	if info.IsDir() {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("replication not applicable to directory")
		return false, nil
	}
	if err := l.update(path, func(a *Attributes) { a.Replication = replication }); err != nil {
		return false, errors.Errorf("setting replication: %w", err)
	}
	return true, nil
}

func (l *Local) Delete(ctx context.Context, path string, recursive bool) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := filepath.Clean("/" + path)
	if key == "/" {
		return false, errors.Errorf("refusing to delete root")
	}

	info, err := l.stat(path)
	if err != nil {
		return false, errors.Errorf("deleting: %w", err)
	}

	abs := l.resolve(path)
	if info.IsDir() && recursive {
		err = os.RemoveAll(abs)
	} else {
		err = os.Remove(abs)
	}
	if err != nil {
		return false, errors.Errorf("deleting %s: %w", path, err)
	}

	attrs, err := l.load()
	if err != nil {
		return false, err
	}
	for k := range attrs {
		if k == key || strings.HasPrefix(k, key+"/") {
			delete(attrs, k)
		}
	}
	if err := l.save(attrs); err != nil {
		return false, err
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Bool("recursive", recursive).Msg("deleted")
	return true, nil
}

// SetOwner changes numeric owners on disk; names are recorded in the ledger
func (l *Local) SetOwner(ctx context.Context, path, owner, group string) (bool, error) {
	if owner == "" && group == "" {
		return false, errors.Errorf("owner or group is required")
	}

	uid, uidErr := strconv.Atoi(owner)
	gid, gidErr := strconv.Atoi(group)
	if (owner == "" || uidErr == nil) && (group == "" || gidErr == nil) {
		if owner == "" {
			uid = -1
		}
		if group == "" {
			gid = -1
		}
		if _, err := l.stat(path); err != nil {
			return false, errors.Errorf("setting owner: %w", err)
		}
		if err := os.Lchown(l.resolve(path), uid, gid); err != nil {
			return false, errors.Errorf("chown %s: %w", path, err)
		}
	}

	err := l.update(path, func(a *Attributes) {
		if owner != "" {
			a.Owner = owner
		}
		if group != "" {
			a.Group = group
		}
	})
	if err != nil {
		return false, errors.Errorf("setting owner: %w", err)
	}
	return true, nil
}

func (l *Local) SetPermission(ctx context.Context, path string, perm os.FileMode) (bool, error) {
	if _, err := l.stat(path); err != nil {
		return false, errors.Errorf("setting permission: %w", err)
	}
	if err := os.Chmod(l.resolve(path), perm); err != nil {
		return false, errors.Errorf("chmod %s: %w", path, err)
	}
	return true, nil
}

func (l *Local) Cache(ctx context.Context, path, pool string) (bool, error) {
	err := l.update(path, func(a *Attributes) {
		a.Cached = true
		a.CachePool = pool
	})
	if err != nil {
		return false, errors.Errorf("caching: %w", err)
	}
	return true, nil
}

func (l *Local) Uncache(ctx context.Context, path string) (bool, error) {
	err := l.update(path, func(a *Attributes) {
		a.Cached = false
		a.CachePool = ""
	})
	if err != nil {
		return false, errors.Errorf("uncaching: %w", err)
	}
	return true, nil
}
