package ranking

// Normalize fills safe defaults into a candidate so a corrupt record never
// fails the whole ranking pass: a zero CreatedAt ranks as just created,
// duplicate like ids collapse to set membership, and a negative comment
// signal becomes zero. Scoring assumes its input went through here, so the
// math itself carries no per-field nil checks.
func Normalize(p Post) Post {
	if p.CommentSignal < 0 {
		p.CommentSignal = 0
	}
	if len(p.Likes) > 1 {
		p.Likes = dedupe(p.Likes)
	}
	return p
}

// dedupe allocates a fresh slice; callers keep slices borrowed from input
// posts, which the ranker must never write to.
func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
