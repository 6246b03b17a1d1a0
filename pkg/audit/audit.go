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

/*
Package audit keeps the durable record of every mutation a campaign attempted.

	<log_dir>/<kind>/<campaign id>.log

Each line is one attempt, tab separated:

	<RFC3339 timestamp>	<path>	<entry type>	<success>

Paths containing tabs, newlines or quotes are written Go-quoted.
Files are only ever appended to.
*/
package audit

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gitlab.com/tozd/go/errors"
)

// 📝 Record is one attempted mutation
type Record struct {
	Time    time.Time
	Path    string
	Type    string
	Success bool
}

// 📒 Log is an append-only audit file for one campaign
type Log struct {
	path string

	mu   sync.Mutex
	f    *os.File
	rows int
	now  func() time.Time
}

// 🏭 Open creates (or reopens for append) the audit file for a campaign
func Open(baseDir, kind, campaignID string) (*Log, error) {
	if baseDir == "" {
		return nil, errors.Errorf("audit base directory is required")
	}
	if kind == "" || campaignID == "" {
		return nil, errors.Errorf("kind and campaign id are required")
	}

	dir := filepath.Join(baseDir, kind)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Errorf("creating audit directory: %w", err)
	}

	path := filepath.Join(dir, campaignID+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.Errorf("opening audit log: %w", err)
	}

	return &Log{
		path: path,
		f:    f,
		now:  time.Now,
	}, nil
}

// Path returns the location of the audit file
func (l *Log) Path() string {
	return l.path
}

// Rows returns how many records this handle has appended
func (l *Log) Rows() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.rows
}

// ➕ Append writes one record and syncs it to disk
func (l *Log) Append(path, entryType string, success bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return errors.Errorf("audit log %s is closed", l.path)
	}

	line := fmt.Sprintf("%s\t%s\t%s\t%t\n", l.now().UTC().Format(time.RFC3339Nano), encodePath(path), entryType, success)
	if _, err := l.f.WriteString(line); err != nil {
		return errors.Errorf("writing audit record: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return errors.Errorf("syncing audit log: %w", err)
	}
	l.rows++
	return nil
}

// Close releases the file handle. Further appends fail.
func (l *Log) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	if err != nil {
		return errors.Errorf("closing audit log: %w", err)
	}
	return nil
}

func encodePath(p string) string {
	if strings.ContainsAny(p, "\t\n\r\"") {
		return strconv.Quote(p)
	}
	return p
}

func decodePath(p string) (string, error) {
	if strings.HasPrefix(p, "\"") {
		return strconv.Unquote(p)
	}
	return p, nil
}

// 📖 Read parses every record of an audit file in write order
func Read(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Errorf("opening audit log: %w", err)
	}
	defer f.Close()

	var records []Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, errors.Errorf("line %d: expected 4 fields, got %d", lineNo, len(fields))
		}

		ts, err := time.Parse(time.RFC3339Nano, fields[0])
		if err != nil {
			return nil, errors.Errorf("line %d: parsing timestamp: %w", lineNo, err)
		}
		p, err := decodePath(fields[1])
		if err != nil {
			return nil, errors.Errorf("line %d: decoding path: %w", lineNo, err)
		}
		ok, err := strconv.ParseBool(fields[3])
		if err != nil {
			return nil, errors.Errorf("line %d: parsing success flag: %w", lineNo, err)
		}

		records = append(records, Record{Time: ts, Path: p, Type: fields[2], Success: ok})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf("reading audit log: %w", err)
	}
	return records, nil
}

// 📊 Counts tallies attempts by outcome
type Counts struct {
	Attempted int
	Succeeded int
	Failed    int
}

// Summary tallies a set of records overall and per entry type
type Summary struct {
	Counts
	ByType map[string]Counts
}

// Summarize aggregates records
func Summarize(records []Record) Summary {
	s := Summary{ByType: map[string]Counts{}}
	for _, r := range records {
		c := s.ByType[r.Type]
		c.Attempted++
		s.Attempted++
		if r.Success {
			c.Succeeded++
			s.Succeeded++
		} else {
			c.Failed++
			s.Failed++
		}
		s.ByType[r.Type] = c
	}
	return s
}
