// Package domain defines the persistence models for tenants, sources,
// sharing rules, subscriptions, and ingested records. These types are mapped
// with GORM and form the core data layer of the catalog application.
package domain

import (
	"sort"
	"strings"
	"time"
)

// Sharing rule scopes. Exactly one rule exists per source; the scope decides
// how much of the source is visible to tenants other than the owner.
const (
	// ScopeNone hides the source from every non-owner tenant.
	ScopeNone = "none"
	// ScopeAll shares every category of the source.
	ScopeAll = "all"
	// ScopeCategorySubset shares only the categories listed on the rule.
	ScopeCategorySubset = "category_subset"
)

// Tenant ownership states of a Record. The state is explicit rather than
// inferred from a nullable column: a record is either resolved to a tenant or
// waiting for a backfill to resolve it.
const (
	// TenantStateResolved means TenantID is set and traces back to the
	// owning tenant of the record's source at resolution time.
	TenantStateResolved = "resolved"
	// TenantStateUnresolved means the source had no owner at write time.
	// Unresolved records are excluded from all tenant-scoped reads.
	TenantStateUnresolved = "unresolved"
)

// Tenant represents an isolated content consumer. A tenant may have a parent
// for federated feeds; the hierarchy is informational only and never widens
// visibility.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Slug: stable human-readable identifier, unique across tenants.
//   - ParentID: optional parent tenant for federated feed setups.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Tenant struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Slug      string    `json:"slug"       gorm:"type:varchar(64);not null;uniqueIndex:ux_tenants_slug"`
	ParentID  *string   `json:"parent_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Tenant.
func (Tenant) TableName() string { return "tenants" }

// Source represents a content producer. An active source must have an owning
// tenant; this is enforced at registration time, not per ingested record.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - Slug: stable identifier used by ingestion adapters, unique.
//   - OwnerTenantID: the tenant that owns everything this source produces.
//     May be null for inactive or not-yet-configured sources.
//   - IsActive: whether the source currently accepts ingestion.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
type Source struct {
	ID            string    `json:"id"              gorm:"type:char(36);primaryKey"`
	Slug          string    `json:"slug"            gorm:"type:varchar(64);not null;uniqueIndex:ux_sources_slug"`
	OwnerTenantID *string   `json:"owner_tenant_id,omitempty" gorm:"type:char(36);index"`
	IsActive      bool      `json:"is_active"       gorm:"not null;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName returns the database table name for Source.
func (Source) TableName() string { return "sources" }

// SharingRule is the owner-defined policy controlling external visibility of
// a source. At most one rule exists per source (unique index); upserts are
// last-write-wins. The absence of a rule means Hidden for every non-owner.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SourceID: the governed source; unique so there is exactly one rule.
//   - Scope: one of ScopeNone, ScopeAll, ScopeCategorySubset (DB constraint).
//   - AllowedCategories: normalized category set (see JoinCategories); only
//     meaningful for ScopeCategorySubset.
type SharingRule struct {
	ID                string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SourceID          string    `json:"source_id"  gorm:"type:char(36);not null;uniqueIndex:ux_sharing_rules_source"`
	Scope             string    `json:"scope"      gorm:"type:varchar(16);not null;check:scope IN ('none','all','category_subset')"`
	AllowedCategories string    `json:"allowed_categories" gorm:"type:text;not null;default:''"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TableName returns the database table name for SharingRule.
func (SharingRule) TableName() string { return "sharing_rules" }

// Subscription is a subscriber tenant's opt-in to a shared source. A
// subscription may only narrow visibility already granted by the source's
// sharing rule; it can never grant visibility the rule denies.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SubscriberTenantID / SourceID: unique pair; re-subscribing upserts.
//   - SubscribedCategories: normalized category set; empty means the
//     subscriber takes everything the rule grants.
//   - IsActive: soft-disable flag toggled by unsubscribe.
type Subscription struct {
	ID                   string    `json:"id"        gorm:"type:char(36);primaryKey"`
	SubscriberTenantID   string    `json:"subscriber_tenant_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_subscriptions_tenant_source,priority:1"`
	SourceID             string    `json:"source_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_subscriptions_tenant_source,priority:2"`
	SubscribedCategories string    `json:"subscribed_categories" gorm:"type:text;not null;default:''"`
	IsActive             bool      `json:"is_active" gorm:"not null;default:true"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// TableName returns the database table name for Subscription.
func (Subscription) TableName() string { return "subscriptions" }

// Record represents a single ingested item (e.g., an event). Records are
// never hard-deleted; a duplicate is kept as a redirect whose CanonicalID
// points at the surviving live record.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - SourceID: the producing source.
//   - TenantID / TenantState: explicit ownership state. TenantID is assigned
//     once at creation when the source owner is known, or left null with
//     TenantState=unresolved until a backfill resolves it.
//   - Title / Category / Date / StartTime / SpatialAnchorID / Payload: the
//     item attributes; Date is a calendar day (YYYY-MM-DD), StartTime an
//     optional wall-clock time (HH:MM).
//   - Fingerprint: the deduplication identity key. A partial unique index
//     (see repo.AutoMigrate) guarantees at most one live record per key.
//   - DayKey: the fingerprint minus its time bucket, used to detect timed vs
//     untimed collisions of the same item.
//   - CanonicalID: set when this record has been deduplicated away. The
//     target is always live (no chains).
type Record struct {
	ID              string    `json:"id"         gorm:"type:char(36);primaryKey"`
	SourceID        string    `json:"source_id"  gorm:"type:char(36);not null;index"`
	TenantID        *string   `json:"tenant_id,omitempty" gorm:"type:char(36);index"`
	TenantState     string    `json:"tenant_state" gorm:"type:varchar(16);not null;default:'unresolved';check:tenant_state IN ('resolved','unresolved');index"`
	Title           string    `json:"title"      gorm:"type:varchar(255);not null"`
	Category        string    `json:"category"   gorm:"type:varchar(64);not null;default:''"`
	Date            string    `json:"date"       gorm:"type:char(10);not null"`
	StartTime       *string   `json:"start_time,omitempty" gorm:"type:char(5)"`
	SpatialAnchorID *string   `json:"spatial_anchor_id,omitempty" gorm:"type:varchar(64)"`
	Payload         string    `json:"payload,omitempty" gorm:"type:text;not null;default:''"`
	Fingerprint     string    `json:"-"          gorm:"type:text;not null;index"`
	DayKey          string    `json:"-"          gorm:"type:text;not null;index"`
	CanonicalID     *string   `json:"canonical_id,omitempty" gorm:"type:char(36);index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName returns the database table name for Record.
func (Record) TableName() string { return "records" }

// Live reports whether the record is the surviving representation of its
// item, i.e. it has not been redirected to a canonical record.
func (r *Record) Live() bool { return r.CanonicalID == nil }

// SplitCategories parses a stored category set into a slice. The stored form
// is a comma-separated, lower-cased, sorted list; empty input yields nil.
func SplitCategories(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinCategories normalizes a category slice into the stored form: trimmed,
// lower-cased, deduplicated, sorted, comma-joined. Nil and empty slices both
// produce "".
func JoinCategories(cats []string) string {
	if len(cats) == 0 {
		return ""
	}
	seen := make(map[string]struct{}, len(cats))
	out := make([]string, 0, len(cats))
	for _, c := range cats {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// ValidScope reports whether s is one of the recognized sharing rule scopes.
func ValidScope(s string) bool {
	switch s {
	case ScopeNone, ScopeAll, ScopeCategorySubset:
		return true
	}
	return false
}
