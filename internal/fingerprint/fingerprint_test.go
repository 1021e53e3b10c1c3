package fingerprint

import "testing"

func TestNormalizeTitle_Basics(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Spring Market!", "spring market"},
		{"spring   market", "spring market"},
		{"A Night  at the  Museum", "night at the museum"},
		{"An Evening, of Jazz.", "evening of jazz"},
		{"  Farmers' Market  ", "farmers market"},
		{"THEATER OPENING", "theater opening"}, // "the" only strips as a word
		{"", ""},
		{"!!!", ""},
	}
	for _, c := range cases {
		if got := NormalizeTitle(c.in); got != c.want {
			t.Fatalf("NormalizeTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeTitle_UnicodeCompatibility(t *testing.T) {
	// Fullwidth forms must normalize to their compatibility equivalents.
	if got, want := NormalizeTitle("Ｓｐｒｉｎｇ Ｍａｒｋｅｔ"), "spring market"; got != want {
		t.Fatalf("NFKC normalization: got %q, want %q", got, want)
	}
}

func TestTimeBucket_DisjointForms(t *testing.T) {
	if got := TimeBucket(""); got != TimeUnknown {
		t.Fatalf("empty start time: got %q, want %q", got, TimeUnknown)
	}
	if got := TimeBucket("19:00"); got != "t:19:00" {
		t.Fatalf("known start time: got %q", got)
	}
	// The sentinel can never collide with a timed bucket.
	if TimeBucket("") == TimeBucket("19:00") {
		t.Fatal("timed and untimed buckets must be disjoint")
	}
}

func TestCompute_Deterministic(t *testing.T) {
	a := Compute("src-7", "anchor-1", "2026-03-15", "19:00", "The Spring Market")
	b := Compute("src-7", "anchor-1", "2026-03-15", "19:00", "spring  market!")
	if a != b {
		t.Fatalf("equivalent inputs produced different keys: %+v vs %+v", a, b)
	}
	c := Compute("src-7", "anchor-1", "2026-03-15", "", "spring market")
	if c.Fingerprint == a.Fingerprint {
		t.Fatal("timed and untimed fingerprints must differ")
	}
	if c.DayKey != a.DayKey {
		t.Fatalf("day keys must agree regardless of time: %q vs %q", c.DayKey, a.DayKey)
	}
}

func TestCompute_FieldSensitivity(t *testing.T) {
	base := Compute("src-7", "", "2026-03-15", "", "spring market")
	if got := Compute("src-8", "", "2026-03-15", "", "spring market"); got.Fingerprint == base.Fingerprint {
		t.Fatal("different sources must not collide")
	}
	if got := Compute("src-7", "", "2026-03-16", "", "spring market"); got.Fingerprint == base.Fingerprint {
		t.Fatal("different dates must not collide")
	}
	if got := Compute("src-7", "a1", "2026-03-15", "", "spring market"); got.Fingerprint == base.Fingerprint {
		t.Fatal("different anchors must not collide")
	}
}
