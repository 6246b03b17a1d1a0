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
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fsmutate/pkg/inode"
)

func TestVariantsCallClient(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		params Params
		entry  inode.Entry
		method string
		args   []interface{}
	}{
		{
			name:   "storage_policy",
			kind:   KindSetStoragePolicy,
			params: Params{"policy": "COLD"},
			entry:  dir("/warehouse"),
			method: "SetStoragePolicy",
			args:   []interface{}{"/warehouse", "COLD"},
		},
		{
			name:   "replication",
			kind:   KindSetReplication,
			params: Params{"replication": "2"},
			entry:  file("/f"),
			method: "SetReplication",
			args:   []interface{}{"/f", int16(2)},
		},
		{
			name:   "delete_file",
			kind:   KindDelete,
			params: Params{"recursive": "true"},
			entry:  file("/f"),
			method: "Delete",
			args:   []interface{}{"/f", false},
		},
		{
			name:   "delete_directory_recursive",
			kind:   KindDelete,
			params: Params{"recursive": "true"},
			entry:  dir("/d"),
			method: "Delete",
			args:   []interface{}{"/d", true},
		},
		{
			name:   "delete_directory_default",
			kind:   KindDelete,
			entry:  dir("/d"),
			method: "Delete",
			args:   []interface{}{"/d", false},
		},
		{
			name:   "owner_and_group",
			kind:   KindSetOwner,
			params: Params{"owner": "hdfs", "group": "supergroup"},
			entry:  file("/f"),
			method: "SetOwner",
			args:   []interface{}{"/f", "hdfs", "supergroup"},
		},
		{
			name:   "group_only",
			kind:   KindSetOwner,
			params: Params{"group": "analytics"},
			entry:  dir("/d"),
			method: "SetOwner",
			args:   []interface{}{"/d", "", "analytics"},
		},
		{
			name:   "permission",
			kind:   KindSetPermission,
			params: Params{"permission": "0750"},
			entry:  dir("/d"),
			method: "SetPermission",
			args:   []interface{}{"/d", os.FileMode(0o750)},
		},
		{
			name:   "cache_default_pool",
			kind:   KindCache,
			entry:  file("/hot"),
			method: "Cache",
			args:   []interface{}{"/hot", "default"},
		},
		{
			name:   "cache_named_pool",
			kind:   KindCache,
			params: Params{"pool": "ssd"},
			entry:  file("/hot"),
			method: "Cache",
			args:   []interface{}{"/hot", "ssd"},
		},
		{
			name:   "uncache",
			kind:   KindUncache,
			entry:  file("/cold"),
			method: "Uncache",
			args:   []interface{}{"/cold"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testContext(t)
			spec, err := DefaultRegistry.Lookup(string(tt.kind))
			require.NoError(t, err)

			m, err := spec.Build(tt.params)
			require.NoError(t, err)

			client := new(MockClient)
			client.On(tt.method, append([]interface{}{mock.Anything}, tt.args...)...).Return(true, nil)

			ok, err := m.Mutate(ctx, client, tt.entry)
			require.NoError(t, err)
			assert.True(t, ok)
			client.AssertExpectations(t)
		})
	}
}

func TestVariantParameters(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		params  Params
		wantErr error
	}{
		{name: "policy_missing", kind: KindSetStoragePolicy, wantErr: ErrMissingParameter},
		{name: "policy_blank", kind: KindSetStoragePolicy, params: Params{"policy": "  "}, wantErr: ErrMissingParameter},
		{name: "replication_missing", kind: KindSetReplication, wantErr: ErrMissingParameter},
		{name: "replication_zero", kind: KindSetReplication, params: Params{"replication": "0"}, wantErr: ErrInvalidParameter},
		{name: "replication_not_a_number", kind: KindSetReplication, params: Params{"replication": "three"}, wantErr: ErrInvalidParameter},
		{name: "replication_overflow", kind: KindSetReplication, params: Params{"replication": "40000"}, wantErr: ErrInvalidParameter},
		{name: "delete_bad_flag", kind: KindDelete, params: Params{"recursive": "maybe"}, wantErr: ErrInvalidParameter},
		{name: "owner_missing", kind: KindSetOwner, wantErr: ErrMissingParameter},
		{name: "permission_missing", kind: KindSetPermission, wantErr: ErrMissingParameter},
		{name: "permission_not_octal", kind: KindSetPermission, params: Params{"permission": "0999"}, wantErr: ErrInvalidParameter},
		{name: "permission_too_wide", kind: KindSetPermission, params: Params{"permission": "17777"}, wantErr: ErrInvalidParameter},
		{name: "uncache_ignores_params", kind: KindUncache, params: Params{"pool": "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := DefaultRegistry.Lookup(string(tt.kind))
			require.NoError(t, err)

			_, err = spec.Build(tt.params)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
