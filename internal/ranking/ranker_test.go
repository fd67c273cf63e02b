package ranking

import (
	"math"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func post(id, author string, age time.Duration) Post {
	return Post{ID: id, AuthorID: author, CreatedAt: testNow.Add(-age)}
}

func TestRank_Determinism(t *testing.T) {
	r := New(DefaultConfig())
	posts := []Post{
		{ID: "p1", AuthorID: "a1", CreatedAt: testNow.Add(-time.Hour), Likes: []string{"u1", "u2"}},
		{ID: "p2", AuthorID: "a2", CreatedAt: testNow.Add(-30 * time.Hour), HasVisualMedia: true},
		{ID: "p3", AuthorID: "v1", CreatedAt: testNow.Add(-200 * time.Hour), CommentSignal: 7},
	}
	idx := NewIndex([]string{"a1"}, []string{"a2"})

	first := r.Rank(posts, "v1", idx, testNow)
	second := r.Rank(posts, "v1", idx, testNow)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Score != second[i].Score || first[i].Label != second[i].Label {
			t.Errorf("position %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestRank_Completeness(t *testing.T) {
	r := New(DefaultConfig())
	posts := []Post{
		post("p1", "a1", time.Hour),
		post("p2", "a2", 2*time.Hour),
		post("p3", "a3", 3*time.Hour),
		post("p4", "a1", 90*time.Hour),
	}

	out := r.Rank(posts, "v1", NewIndex(nil, nil), testNow)

	if len(out) != len(posts) {
		t.Fatalf("output length = %d, want %d", len(out), len(posts))
	}
	seen := make(map[string]int)
	for _, sp := range out {
		seen[sp.ID]++
	}
	for _, p := range posts {
		if seen[p.ID] != 1 {
			t.Errorf("post %s appears %d times, want exactly once", p.ID, seen[p.ID])
		}
	}
}

func TestRank_AnonymousPassThrough(t *testing.T) {
	r := New(DefaultConfig())
	posts := []Post{
		post("p1", "a1", 100*time.Hour), // would rank last if scored
		post("p2", "a2", time.Minute),
		post("p3", "a3", 48*time.Hour),
	}

	out := r.Rank(posts, "", NewIndex([]string{"a2"}, nil), testNow)

	for i, sp := range out {
		if sp.ID != posts[i].ID {
			t.Errorf("position %d: got %s, want input order %s", i, sp.ID, posts[i].ID)
		}
		if sp.Score != 0 || sp.Label != "" {
			t.Errorf("anonymous entry %s scored (score=%v label=%q), want unscored", sp.ID, sp.Score, sp.Label)
		}
	}
}

func TestRank_MonotonicRecency(t *testing.T) {
	r := New(DefaultConfig())
	newer := post("newer", "a1", time.Hour)
	older := post("older", "a1", 40*time.Hour)

	out := r.Rank([]Post{older, newer}, "v1", NewIndex(nil, nil), testNow)

	if out[0].ID != "newer" {
		t.Fatalf("newer post ranked below older: %s first", out[0].ID)
	}
	if out[0].Score <= out[1].Score {
		t.Errorf("newer score %v not above older %v", out[0].Score, out[1].Score)
	}
}

func TestRank_OwnPostPriority(t *testing.T) {
	r := New(DefaultConfig())
	own := post("mine", "v1", time.Hour)

	// Follow state must not matter for the viewer's own posts.
	indexes := []Index{
		NewIndex(nil, nil),
		NewIndex([]string{"v1"}, nil),
		NewIndex([]string{"v1"}, []string{"v1"}),
	}
	for _, idx := range indexes {
		out := r.Rank([]Post{own}, "v1", idx, testNow)
		if out[0].Label != LabelOwn {
			t.Errorf("label = %q, want %q", out[0].Label, LabelOwn)
		}
	}
}

func TestRank_StabilityUnderTie(t *testing.T) {
	r := New(DefaultConfig())
	// Identical in every scoring input, so scores tie exactly.
	posts := []Post{
		post("first", "a1", 5*time.Hour),
		post("second", "a2", 5*time.Hour),
		post("third", "a3", 5*time.Hour),
	}

	out := r.Rank(posts, "v1", NewIndex(nil, nil), testNow)

	if out[0].Score != out[1].Score || out[1].Score != out[2].Score {
		t.Fatalf("expected tied scores, got %v %v %v", out[0].Score, out[1].Score, out[2].Score)
	}
	for i, want := range []string{"first", "second", "third"} {
		if out[i].ID != want {
			t.Errorf("position %d = %s, want %s (input order under tie)", i, out[i].ID, want)
		}
	}
}

func TestEngagement_Clamping(t *testing.T) {
	r := New(DefaultConfig())
	if got := r.engagement(1000, 1000); got != 1.0 {
		t.Errorf("engagement(1000, 1000) = %v, want exactly 1.0", got)
	}
	if got := r.engagement(0, 0); got != 0 {
		t.Errorf("engagement(0, 0) = %v, want 0", got)
	}
	// Below the cap the blend is linear: (0.6*10 + 0.4*10) / 50 = 0.2.
	if got := r.engagement(10, 10); !almostEqual(got, 0.2) {
		t.Errorf("engagement(10, 10) = %v, want 0.2", got)
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	r := New(DefaultConfig())
	idx := NewIndex([]string{"followed", "mutual"}, []string{"fan", "mutual"})

	cases := []struct {
		name      string
		author    string
		wantLabel Label
		wantComp  float64
	}{
		{"own wins over mutual", "v1", LabelOwn, 1.0},
		{"mutual", "mutual", LabelMutual, 0.8},
		{"following only", "followed", LabelFollowing, 1.0},
		{"follower only", "fan", LabelFollower, 0.6},
		{"stranger", "nobody", LabelSuggested, 0.1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			label, comp := r.classify(tc.author, "v1", idx)
			if label != tc.wantLabel || !almostEqual(comp, tc.wantComp) {
				t.Errorf("classify(%q) = (%q, %v), want (%q, %v)", tc.author, label, comp, tc.wantLabel, tc.wantComp)
			}
		})
	}
}

func TestClassify_EmptyIndexAllSuggested(t *testing.T) {
	r := New(DefaultConfig())
	out := r.Rank([]Post{post("p1", "a1", time.Hour)}, "v1", Index{}, testNow)
	if out[0].Label != LabelSuggested {
		t.Errorf("label = %q, want %q with no relationship data", out[0].Label, LabelSuggested)
	}
}

func TestRank_ScenarioThreeAuthors(t *testing.T) {
	r := New(DefaultConfig())
	// v1 follows a1, is followed by a2, no relation to a3. All posts bare of
	// engagement and media.
	posts := []Post{
		post("by-a1", "a1", 0),
		post("by-a2", "a2", time.Hour),
		post("by-a3", "a3", 100*time.Hour),
	}
	idx := NewIndex([]string{"a1"}, []string{"a2"})

	out := r.Rank(posts, "v1", idx, testNow)

	wantOrder := []string{"by-a1", "by-a2", "by-a3"}
	wantScores := []float64{
		0.35*1.0 + 0.25*1.0 + 0.10*0.3,        // following, recency 1
		0.35*(1-1.0/72) + 0.25*0.6 + 0.10*0.3, // follower, 1h old
		0.35*0 + 0.25*0.1 + 0.10*0.3,          // suggested, past decay window
	}
	for i := range out {
		if out[i].ID != wantOrder[i] {
			t.Errorf("position %d = %s, want %s", i, out[i].ID, wantOrder[i])
		}
		if !almostEqual(out[i].Score, wantScores[i]) {
			t.Errorf("%s score = %v, want %v", out[i].ID, out[i].Score, wantScores[i])
		}
	}
}

func TestRank_MalformedFieldsDoNotFailThePass(t *testing.T) {
	r := New(DefaultConfig())
	posts := []Post{
		{ID: "no-timestamp", AuthorID: "a1"},                                       // zero CreatedAt
		{ID: "future", AuthorID: "a2", CreatedAt: testNow.Add(6 * time.Hour)},      // clock skew
		{ID: "bad-signal", AuthorID: "a3", CreatedAt: testNow, CommentSignal: -42}, // negative count
		{ID: "dup-likes", AuthorID: "a4", CreatedAt: testNow, Likes: []string{"u1", "u1", "u1"}},
	}

	out := r.Rank(posts, "v1", NewIndex(nil, nil), testNow)

	if len(out) != len(posts) {
		t.Fatalf("corrupt records dropped: got %d of %d", len(out), len(posts))
	}
	byID := make(map[string]ScoredPost, len(out))
	for _, sp := range out {
		byID[sp.ID] = sp
	}

	// Missing and future timestamps both rank as just created.
	justCreated := 0.35*1.0 + 0.25*0.1 + 0.10*0.3
	if got := byID["no-timestamp"].Score; !almostEqual(got, justCreated) {
		t.Errorf("no-timestamp score = %v, want %v", got, justCreated)
	}
	if got := byID["future"].Score; !almostEqual(got, justCreated) {
		t.Errorf("future score = %v, want %v", got, justCreated)
	}
	if got := byID["bad-signal"].CommentSignal; got != 0 {
		t.Errorf("negative comment signal normalized to %d, want 0", got)
	}
	if got := len(byID["dup-likes"].Likes); got != 1 {
		t.Errorf("duplicate likes collapsed to %d entries, want 1", got)
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	r := New(DefaultConfig())
	likes := []string{"u1", "u1"}
	posts := []Post{{ID: "p1", AuthorID: "a1", CreatedAt: testNow, Likes: likes, CommentSignal: -1}}

	r.Rank(posts, "v1", NewIndex(nil, nil), testNow)

	if posts[0].CommentSignal != -1 || len(posts[0].Likes) != 2 || likes[1] != "u1" {
		t.Errorf("input post mutated: %+v", posts[0])
	}
}

func TestNew_InvalidConfigFallsBack(t *testing.T) {
	r := New(Config{WeightRecency: 0.9, WeightEngagement: 0.9})
	if !r.cfg.Valid() {
		t.Fatal("invalid config not replaced with defaults")
	}
	if r.cfg.DecayHours != 72 {
		t.Errorf("decay = %v, want default 72", r.cfg.DecayHours)
	}
}

func TestConfig_Valid(t *testing.T) {
	if !DefaultConfig().Valid() {
		t.Error("default config must be valid")
	}
	bad := DefaultConfig()
	bad.WeightRecency = 0.5
	if bad.Valid() {
		t.Error("weights summing past 1.0 must be invalid")
	}
	zeroDecay := DefaultConfig()
	zeroDecay.DecayHours = 0
	if zeroDecay.Valid() {
		t.Error("zero decay window must be invalid")
	}
}
