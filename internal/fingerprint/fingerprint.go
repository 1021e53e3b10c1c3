// Package fingerprint derives the deterministic identity key used to
// deduplicate ingested records. The key is a pure function of the record's
// defining attributes (source, spatial anchor, date, time bucket, normalized
// title): identical input always produces identical output, so the key can be
// recomputed at any time and compared against stored values.
//
// Two records are the same item when their fingerprints match. The time
// bucket has two disjoint encodings, a known wall-clock time and an
// "unknown" sentinel, and the DayKey (the fingerprint minus the time bucket)
// lets the insert path detect that a timed and an untimed record describe the
// same item, e.g. after an upstream normalization change starts supplying
// times for a source that previously had none.
package fingerprint

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// TimeUnknown is the time-bucket sentinel for records without a start time.
const TimeUnknown = "u"

// Key is the deduplication identity of a record.
//
// Fingerprint is the full identity including the time bucket; the storage
// layer keeps at most one live record per Fingerprint. DayKey drops the time
// bucket and is used to catch timed/untimed collisions of the same item.
type Key struct {
	Fingerprint string
	DayKey      string
}

// Compute derives the identity key for a record. spatialAnchorID and
// startTime may be empty; date is a calendar day (YYYY-MM-DD) and startTime,
// when present, a wall-clock time (HH:MM). The function is pure: it performs
// no I/O and depends only on its arguments.
func Compute(sourceID, spatialAnchorID, date, startTime, title string) Key {
	day := strings.Join([]string{
		sourceID,
		spatialAnchorID,
		date,
		NormalizeTitle(title),
	}, "|")
	return Key{
		Fingerprint: day + "|" + TimeBucket(startTime),
		DayKey:      day,
	}
}

// TimeBucket encodes a start time into its bucket form: "t:HH:MM" for a known
// time, or the TimeUnknown sentinel for an absent one. The two forms are
// disjoint, so a timed key can never equal an untimed key.
func TimeBucket(startTime string) string {
	startTime = strings.TrimSpace(startTime)
	if startTime == "" {
		return TimeUnknown
	}
	return "t:" + startTime
}

// NormalizeTitle canonicalizes a record title for identity comparison:
// Unicode NFKC normalization, lower-casing, punctuation stripped, internal
// whitespace collapsed to single spaces, and a leading English article
// (the/a/an) removed. "The Spring Market!" and "spring   market" normalize to
// the same value.
func NormalizeTitle(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	s = punctRE.ReplaceAllString(s, " ")
	s = strings.TrimSpace(whitespaceRE.ReplaceAllString(s, " "))
	s = articleRE.ReplaceAllString(s, "")
	return s
}

var (
	// punctRE matches everything that is not a letter, digit, or space.
	punctRE = regexp.MustCompile(`[^\p{L}\p{N} ]+`)
	// whitespaceRE collapses consecutive whitespace to a single space.
	whitespaceRE = regexp.MustCompile(`\s+`)
	// articleRE strips one leading English article and its trailing space.
	articleRE = regexp.MustCompile(`^(?:the|a|an) `)
)
