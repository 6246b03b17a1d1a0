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

// Package fsclient is the boundary to the live filesystem that actually
// performs mutations. Every primitive reports success/failure and may also
// return an error; callers treat both as a per-path outcome.
package fsclient

import (
	"context"
	"os"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned when the target path does not exist
var ErrNotFound = errors.Base("path not found")

// 🔌 Client exposes one mutation primitive per mutation kind
type Client interface {
	// SetStoragePolicy assigns a named storage policy to the path
	SetStoragePolicy(ctx context.Context, path, policy string) (bool, error)
	// SetReplication changes the replication factor of the path
	SetReplication(ctx context.Context, path string, replication int16) (bool, error)
	// Delete removes the path, recursively if requested
	Delete(ctx context.Context, path string, recursive bool) (bool, error)
	// SetOwner changes owner and/or group; empty values are left alone
	SetOwner(ctx context.Context, path, owner, group string) (bool, error)
	// SetPermission changes the permission bits of the path
	SetPermission(ctx context.Context, path string, perm os.FileMode) (bool, error)
	// Cache pins the path into the named cache pool
	Cache(ctx context.Context, path, pool string) (bool, error)
	// Uncache removes the path from any cache pool
	Uncache(ctx context.Context, path string) (bool, error)
}
