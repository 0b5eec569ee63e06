// Copyright 2025
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package data

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type IngestStatus string

const (
	IngestSuccess IngestStatus = "SUCCESS"
	IngestFailed  IngestStatus = "FAILED"
	IngestPartial IngestStatus = "PARTIAL"
)

// IngestLog records the outcome of one (symbol, dataset) load operation
type IngestLog struct {
	ID      uuid.UUID `db:"id"`
	RunID   uuid.UUID `db:"run_id"`
	Symbol  string    `db:"symbol"`
	Dataset string    `db:"dataset"`

	RecordsProcessed  int          `db:"records_processed"`
	RecordsSuccessful int          `db:"records_successful"`
	RecordsFailed     int          `db:"records_failed"`
	Status            IngestStatus `db:"status"`
	ErrorMessage      string       `db:"error_message"`

	CreatedOn time.Time `db:"created_on"`
}

func (entry *IngestLog) MarshalZerologObject(e *zerolog.Event) {
	e.Str("Symbol", entry.Symbol)
	e.Str("Dataset", entry.Dataset)
	e.Int("Processed", entry.RecordsProcessed)
	e.Int("Successful", entry.RecordsSuccessful)
	e.Str("Status", string(entry.Status))
}

func (entry *IngestLog) SaveDB(ctx context.Context, dbConn *pgxpool.Conn) error {
	if entry.Symbol == "" || entry.Dataset == "" {
		return nil
	}

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if entry.CreatedOn.IsZero() {
		entry.CreatedOn = time.Now()
	}

	sql := `INSERT INTO ingestion_log (
		"id",
		"run_id",
		"symbol",
		"dataset",
		"records_processed",
		"records_successful",
		"records_failed",
		"status",
		"error_message",
		"created_on"
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
	)`

	_, err := dbConn.Exec(ctx, sql, entry.ID, entry.RunID, entry.Symbol,
		entry.Dataset, entry.RecordsProcessed, entry.RecordsSuccessful,
		entry.RecordsFailed, entry.Status, entry.ErrorMessage, entry.CreatedOn)
	if err != nil {
		log.Error().Err(err).Object("IngestLog", entry).Msg("save ingest log entry to DB failed")
	}

	return err
}
