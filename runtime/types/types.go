// Package types provides the shared runtime types for goquent.
package types

// Row is a single database row keyed by column name. Values hold whatever
// the driver returned, normalized so that []byte columns become strings.
type Row map[string]interface{}

// Pagination wraps one page of rows together with paging metadata.
// NextPage and PrevPage are nil when there is no such page.
type Pagination struct {
	Data     []Row `json:"data"`
	Total    int64 `json:"total"`
	Pages    int   `json:"pages"`
	Page     int   `json:"page"`
	PerPage  int   `json:"per_page"`
	NextPage *int  `json:"next_page"`
	PrevPage *int  `json:"prev_page"`
}
