package recommender

// Model is the opaque scoring capability the learned scorer wraps. Indices
// are 0-based (stored id minus 1). ScoreBatch evaluates one user against a
// batch of items in a single call and returns one logit per item.
type Model interface {
	ScoreBatch(userIdx int, itemIdxs []int) ([]float64, error)
	NumUsers() int
	NumItems() int
}
