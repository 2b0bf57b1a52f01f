/*
 * MIT License
 *
 * Copyright (c) 2023 EASL and the vHive community
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 */

// Package store persists parsed benchmark records in a SQLite database so they
// can be queried with plain SQL.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/vhive-serverless/hwlottery/pkg/common"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS invocations (
	id                       INTEGER PRIMARY KEY AUTOINCREMENT,
	timestamp                TEXT    NOT NULL,
	stage                    TEXT    NOT NULL,
	provider                 TEXT    NOT NULL,
	region                   TEXT    NOT NULL,
	function                 TEXT    NOT NULL,
	memory_size_mb           INTEGER NOT NULL,
	parallel_requests        INTEGER NOT NULL,
	iterations_per_benchmark INTEGER NOT NULL,
	retries                  INTEGER NOT NULL,
	cpu_type                 TEXT    NOT NULL,
	cpu_model_number         TEXT    NOT NULL,
	cpu_frequency            REAL,
	flags                    TEXT    NOT NULL,
	runtime_ms               REAL,
	user_runtime_ms          REAL,
	framework_runtime_ms     REAL,
	container_id             TEXT    NOT NULL,
	new_container            INTEGER,
	invocation_count         INTEGER,
	instance_id              TEXT    NOT NULL,
	uuid                     TEXT    NOT NULL,
	request_id               TEXT    NOT NULL,
	benchmark_type           TEXT    NOT NULL,
	matrix_size              INTEGER,
	multiplication_time_ms   REAL,
	key_size                 INTEGER,
	encrypt_size_mb          REAL,
	encrypt_time_ms          REAL,
	compress_size_mb         REAL,
	compress_time_ms         REAL,
	hash_size_mb             REAL,
	hash_time_ms             REAL,
	json_time_ms             REAL,
	source_file              TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS invocations_lookup ON invocations (provider, benchmark_type, cpu_type);
`

var columns = []string{
	"timestamp", "stage", "provider", "region", "function", "memory_size_mb",
	"parallel_requests", "iterations_per_benchmark", "retries",
	"cpu_type", "cpu_model_number", "cpu_frequency", "flags",
	"runtime_ms", "user_runtime_ms", "framework_runtime_ms",
	"container_id", "new_container", "invocation_count", "instance_id", "uuid", "request_id",
	"benchmark_type", "matrix_size", "multiplication_time_ms", "key_size",
	"encrypt_size_mb", "encrypt_time_ms", "compress_size_mb", "compress_time_ms",
	"hash_size_mb", "hash_time_ms", "json_time_ms", "source_file",
}

type Store struct {
	db *sql.DB
}

// Open creates the database file if needed and makes sure the schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", path)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Insert adds all records in a single transaction.
func (s *Store) Insert(ctx context.Context, records []common.BenchmarkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",")
	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO invocations ("+strings.Join(columns, ",")+") VALUES ("+placeholders+")")
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for i := range records {
		r := &records[i]
		_, err := stmt.ExecContext(ctx,
			r.Timestamp.UTC().Format(time.RFC3339Nano), r.Stage, r.Provider, r.Region, r.Function, r.MemorySizeMB,
			r.ParallelRequests, r.IterationsPerBenchmark, r.Retries,
			r.CPUType, r.CPUModelNumber, r.CPUFrequencyMHz, strings.Join(r.CPUFlags, " "),
			r.RuntimeMs, r.UserRuntimeMs, r.FrameworkRuntimeMs,
			r.ContainerID, r.NewContainer, r.InvocationCount, r.InstanceID, r.UUID, r.RequestID,
			r.BenchmarkType, r.MatrixSize, r.MultiplicationTimeMs, r.KeySize,
			r.EncryptSizeMB, r.EncryptTimeMs, r.CompressSizeMB, r.CompressTimeMs,
			r.HashSizeMB, r.HashTimeMs, r.JSONTimeMs, r.SourceFile,
		)
		if err != nil {
			return errors.Wrapf(err, "failed to insert record from %s", r.SourceFile)
		}
	}

	return errors.Wrap(tx.Commit(), "failed to commit")
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM invocations").Scan(&n)
	return n, errors.Wrap(err, "failed to count invocations")
}

// CPUCount is the number of invocations observed on a CPU type.
type CPUCount struct {
	CPUType     string
	Invocations int
}

// CPUTypes lists the CPU types seen for a provider, most frequent first.
func (s *Store) CPUTypes(ctx context.Context, provider string) ([]CPUCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cpu_type, COUNT(*) AS n FROM invocations WHERE provider = ?
		 GROUP BY cpu_type ORDER BY n DESC, cpu_type`, provider)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query cpu types")
	}
	defer rows.Close()

	var result []CPUCount
	for rows.Next() {
		var c CPUCount
		if err := rows.Scan(&c.CPUType, &c.Invocations); err != nil {
			return nil, errors.Wrap(err, "failed to scan cpu type")
		}
		result = append(result, c)
	}

	return result, errors.Wrap(rows.Err(), "failed to iterate cpu types")
}
