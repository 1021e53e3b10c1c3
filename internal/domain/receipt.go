package domain

import "time"

// IngestReceipt records the outcome of a previously processed ingestion
// request, keyed by (source_id, key). Producers retry freely after partial
// failure; a matching receipt lets the ingest path return the originally
// produced record without re-executing side effects.
type IngestReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	SourceID  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_receipt_source_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_receipt_source_key,priority:2"`
	RecordID  string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (IngestReceipt) TableName() string { return "ingest_receipts" }
