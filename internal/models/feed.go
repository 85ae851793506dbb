package models

// Feed sort orders
const (
	SortLatest        = "latest"
	SortOldest        = "oldest"
	SortMostViewed    = "most_viewed"
	SortMostLiked     = "most_liked"
	SortMostCommented = "most_commented"
)

// Feed time windows, applied to created_at
const (
	TimeAll   = ""
	TimeDay   = "day"
	TimeWeek  = "week"
	TimeMonth = "month"
	TimeYear  = "year"
)

// FeedQuery carries the resolved restrictions for a feed page. Empty
// ContentTypeIDs/CategoryIDs mean no restriction on that axis.
type FeedQuery struct {
	ContentTypeIDs []uint
	CategoryIDs    []uint
	SortBy         string
	Time           string
	Search         string
	Skip           int64
	Limit          int64
}
