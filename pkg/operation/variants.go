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

package operation

import (
	"context"
	"os"
	"strconv"

	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
	"gitlab.com/tozd/go/errors"
)

const defaultCachePool = "default"

// 🧊 newSetStoragePolicy requires "policy"
func newSetStoragePolicy(p Params) (Mutator, error) {
	policy, err := p.Require("policy")
	if err != nil {
		return nil, err
	}
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.SetStoragePolicy(ctx, e.Path, policy)
	}), nil
}

// 📑 newSetReplication requires a positive "replication"
func newSetReplication(p Params) (Mutator, error) {
	raw, err := p.Require("replication")
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseInt(raw, 10, 16)
	if err != nil || n <= 0 {
		return nil, errors.Errorf("%w: replication=%q must be a positive integer", ErrInvalidParameter, raw)
	}
	replication := int16(n)
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.SetReplication(ctx, e.Path, replication)
	}), nil
}

// 🗑️ newDelete takes an optional "recursive" flag; directories are only removed
// recursively when it is set
func newDelete(p Params) (Mutator, error) {
	recursive, err := p.Bool("recursive", false)
	if err != nil {
		return nil, err
	}
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.Delete(ctx, e.Path, recursive && e.IsDirectory())
	}), nil
}

// 👤 newSetOwner needs at least one of "owner" and "group"
func newSetOwner(p Params) (Mutator, error) {
	owner, group := p.String("owner"), p.String("group")
	if owner == "" && group == "" {
		return nil, errors.Errorf("%w: owner or group", ErrMissingParameter)
	}
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.SetOwner(ctx, e.Path, owner, group)
	}), nil
}

// 🔐 newSetPermission requires an octal "permission" such as 0750
func newSetPermission(p Params) (Mutator, error) {
	raw, err := p.Require("permission")
	if err != nil {
		return nil, err
	}
	n, err := strconv.ParseUint(raw, 8, 32)
	if err != nil || n > 0o777 {
		return nil, errors.Errorf("%w: permission=%q must be octal permission bits", ErrInvalidParameter, raw)
	}
	perm := os.FileMode(n)
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.SetPermission(ctx, e.Path, perm)
	}), nil
}

// 📥 newCache takes an optional "pool"
func newCache(p Params) (Mutator, error) {
	pool := p.String("pool")
	if pool == "" {
		pool = defaultCachePool
	}
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.Cache(ctx, e.Path, pool)
	}), nil
}

// 📤 newUncache takes no parameters
func newUncache(Params) (Mutator, error) {
	return MutatorFunc(func(ctx context.Context, c fsclient.Client, e inode.Entry) (bool, error) {
		return c.Uncache(ctx, e.Path)
	}), nil
}
