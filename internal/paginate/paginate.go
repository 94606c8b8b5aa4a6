// Package paginate computes reverse-chronological page windows over
// ordered record sequences.
package paginate

import "github.com/mclog/mclog-go/pkg/mclog/record"

// DefaultPageSize is the page size for types without an override,
// unless the viewer configures a different message count.
const DefaultPageSize = 500

// Page slices one page out of records (stored oldest first) and
// returns it with the total page count. Page 0 is the most recent
// page. A pageIndex past the last page clamps rather than errors, and
// pageCount is never below 1.
func Page(records []record.RawRecord, pageIndex, pageSize int) ([]record.RawRecord, int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	pageCount := (len(records) + pageSize - 1) / pageSize
	if pageCount < 1 {
		pageCount = 1
	}

	if pageIndex < 0 {
		pageIndex = 0
	}
	if pageIndex > pageCount-1 {
		pageIndex = pageCount - 1
	}

	to := len(records) - pageSize*pageIndex
	from := to - pageSize
	if from < 0 {
		from = 0
	}
	if to < 0 {
		to = 0
	}
	return records[from:to], pageCount
}
