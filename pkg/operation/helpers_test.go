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
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/fsmutate/pkg/audit"
	"github.com/walteh/fsmutate/pkg/fsclient"
	"github.com/walteh/fsmutate/pkg/inode"
)

// 🔧 MockClient is a mock implementation of the fsclient.Client interface
type MockClient struct {
	mock.Mock
}

var _ fsclient.Client = (*MockClient)(nil)

func (m *MockClient) SetStoragePolicy(ctx context.Context, path, policy string) (bool, error) {
	args := m.Called(ctx, path, policy)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SetReplication(ctx context.Context, path string, replication int16) (bool, error) {
	args := m.Called(ctx, path, replication)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) Delete(ctx context.Context, path string, recursive bool) (bool, error) {
	args := m.Called(ctx, path, recursive)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SetOwner(ctx context.Context, path, owner, group string) (bool, error) {
	args := m.Called(ctx, path, owner, group)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) SetPermission(ctx context.Context, path string, perm os.FileMode) (bool, error) {
	args := m.Called(ctx, path, perm)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) Cache(ctx context.Context, path, pool string) (bool, error) {
	args := m.Called(ctx, path, pool)
	return args.Bool(0), args.Error(1)
}

func (m *MockClient) Uncache(ctx context.Context, path string) (bool, error) {
	args := m.Called(ctx, path)
	return args.Bool(0), args.Error(1)
}

// testContext returns a context carrying a logger that writes to the test log
func testContext(t *testing.T) context.Context {
	t.Helper()
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func file(path string) inode.Entry {
	return inode.Entry{Path: path, Type: inode.TypeFile}
}

func dir(path string) inode.Entry {
	return inode.Entry{Path: path, Type: inode.TypeDirectory}
}

func other(path string) inode.Entry {
	return inode.Entry{Path: path, Type: inode.TypeOther}
}

// singleKindRegistry registers a single kind backed by m
func singleKindRegistry(kind Kind, m Mutator) *Registry {
	r := NewRegistry()
	r.Register(Spec{
		Kind:  kind,
		Build: func(Params) (Mutator, error) { return m, nil },
	})
	return r
}

// newTestCampaign builds a campaign whose mutator always reports success
func newTestCampaign(t *testing.T, kind Kind, entries ...inode.Entry) *Campaign {
	t.Helper()
	ok := MutatorFunc(func(context.Context, fsclient.Client, inode.Entry) (bool, error) { return true, nil })
	c, err := singleKindRegistry(kind, ok).Dispatch(testContext(t), Request{
		Kind:    string(kind),
		Owner:   "tester",
		LogDir:  t.TempDir(),
		Client:  fsclient.DryRun{},
		Entries: entries,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func readAudit(t *testing.T, c *Campaign) []audit.Record {
	t.Helper()
	records, err := audit.Read(c.AuditPath())
	require.NoError(t, err)
	return records
}
