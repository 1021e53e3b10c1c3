// Package services defines the business logic for ownership, sharing,
// visibility resolution, ingestion, deduplication, and maintenance. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and
// translation into user-facing messages or HTTP status codes should be
// performed at the handler layer.
package services

import "errors"

var (
	// ErrUnknownTenant is returned when an operation references a tenant
	// that does not exist.
	ErrUnknownTenant = errors.New("tenant does not exist")

	// ErrUnknownSource is returned when an operation references a source
	// that does not exist.
	ErrUnknownSource = errors.New("source does not exist")

	// ErrSourceUnowned is the configuration error for an active source
	// without an owning tenant. It blocks registration of such sources and
	// blocks ingestion from them until an operator assigns ownership; it is
	// never silently defaulted to a guessed tenant.
	ErrSourceUnowned = errors.New("active source has no owning tenant")

	// ErrSlugTaken is returned when creating a tenant or source whose slug
	// is already registered.
	ErrSlugTaken = errors.New("slug already registered")

	// ErrInvalidSlug is returned when a tenant or source slug is empty
	// after normalization.
	ErrInvalidSlug = errors.New("slug must not be empty")

	// ErrInvalidScope is returned when a sharing rule upsert carries a
	// scope outside {none, all, category_subset}.
	ErrInvalidScope = errors.New("invalid sharing scope")

	// ErrEmptyTitle is returned when an ingested record has no usable title
	// after normalization.
	ErrEmptyTitle = errors.New("record title is empty")

	// ErrInvalidDate is returned when an ingested record's date is not a
	// calendar day in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("record date must be YYYY-MM-DD")

	// ErrInvalidTime is returned when an ingested record's start time is
	// present but not in HH:MM form.
	ErrInvalidTime = errors.New("record start time must be HH:MM")
)
