// Ingestion HTTP handlers.
//
// This file exposes the producer-facing write endpoint:
//   - POST /ingest/records
//
// Producers may retry freely by presenting an Idempotency-Key header; a replay
// returns the originally produced record without re-executing side effects.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atlasfeed/go-catalog-backend/internal/http/middleware"
	"github.com/atlasfeed/go-catalog-backend/internal/services"
)

// IngestRecordRequest is the JSON payload for ingesting one record.
type IngestRecordRequest struct {
	// SourceID identifies the producing source.
	SourceID string `json:"source_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	// Title is the record title; must be non-empty after normalization.
	Title string `json:"title" binding:"required" example:"The Spring Market"`
	// Category optionally classifies the record.
	Category string `json:"category" example:"music"`
	// Date is the calendar day of the item (YYYY-MM-DD).
	Date string `json:"date" binding:"required" example:"2026-03-15"`
	// StartTime is an optional wall-clock time (HH:MM).
	StartTime string `json:"start_time" example:"18:00"`
	// SpatialAnchorID is an optional venue/place identifier.
	SpatialAnchorID string `json:"spatial_anchor_id" example:"venue-42"`
	// Payload carries opaque source data stored with the record.
	Payload string `json:"payload"`
}

// IngestRecord godoc
// @ID          ingestRecord
// @Summary     Ingest a record
// @Description Accepts one record from a producer. Duplicates are resolved to the oldest live record; the response always names the surviving record.
// @Tags        Ingestion
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string  false "Retry-safe request key"  example(batch-2026-03-15-0042)
// @Param       body             body    handlers.IngestRecordRequest  true  "Record payload"
//
// @Success     201  {object}  services.IngestResult  "New live record created"
// @Success     200  {object}  services.IngestResult  "Deduplicated to an existing record"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown source"
// @Failure     409  {object}  handlers.ErrorResponse "Active source has no owner"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /ingest/records [post]
func (h *Handlers) IngestRecord(c *gin.Context) {
	var req IngestRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)

	res, err := h.ingestSvc.Ingest(c.Request.Context(), services.IngestInput{
		SourceID:        req.SourceID,
		Title:           req.Title,
		Category:        req.Category,
		Date:            req.Date,
		StartTime:       req.StartTime,
		SpatialAnchorID: req.SpatialAnchorID,
		Payload:         req.Payload,
	}, idemKey)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmptyTitle),
			errors.Is(err, services.ErrInvalidDate),
			errors.Is(err, services.ErrInvalidTime):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrUnknownSource):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "source not found")
		case errors.Is(err, services.ErrSourceUnowned):
			fail(c, http.StatusConflict, ErrCodeSourceUnowned, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeIngestFailed, err.Error())
		}
		return
	}

	status := http.StatusCreated
	if res.Deduplicated {
		status = http.StatusOK
	}
	ok(c, status, res)
}
