package repository

const (
	MaxLimit            = 50
	DefaultPostLimit    = 10
	DefaultCommentLimit = 5
	MaxCommentLimit     = 50
)

// Page is a clamped (limit, offset) pair. Construct it with NewPage.
type Page struct {
	Limit  int
	Offset int
}

// NewPage clamps limit into [1, MaxLimit] and offset to >= 0.
func NewPage(limit, offset int) Page {
	return Page{Limit: clamp(limit, 1, MaxLimit), Offset: max(offset, 0)}
}

// ClampCommentLimit bounds the per-post comment preview into [0, MaxCommentLimit].
func ClampCommentLimit(n int) int { return clamp(n, 0, MaxCommentLimit) }

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
