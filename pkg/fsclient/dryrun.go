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
	"os"

	"github.com/rs/zerolog"
)

// 🧪 DryRun logs every mutation it is asked to perform and reports success
// without touching anything
type DryRun struct{}

var _ Client = DryRun{}

func (DryRun) SetStoragePolicy(ctx context.Context, path, policy string) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Str("policy", policy).Msg("dry run: set storage policy")
	return true, nil
}

func (DryRun) SetReplication(ctx context.Context, path string, replication int16) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Int16("replication", replication).Msg("dry run: set replication")
	return true, nil
}

func (DryRun) Delete(ctx context.Context, path string, recursive bool) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Bool("recursive", recursive).Msg("dry run: delete")
	return true, nil
}

func (DryRun) SetOwner(ctx context.Context, path, owner, group string) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Str("owner", owner).Str("group", group).Msg("dry run: set owner")
	return true, nil
}

func (DryRun) SetPermission(ctx context.Context, path string, perm os.FileMode) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Str("permission", perm.String()).Msg("dry run: set permission")
	return true, nil
}

func (DryRun) Cache(ctx context.Context, path, pool string) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Str("pool", pool).Msg("dry run: cache")
	return true, nil
}

func (DryRun) Uncache(ctx context.Context, path string) (bool, error) {
	zerolog.Ctx(ctx).Info().Str("path", path).Msg("dry run: uncache")
	return true, nil
}
