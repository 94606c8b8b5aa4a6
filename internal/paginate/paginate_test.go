package paginate

import (
	"fmt"
	"testing"

	"github.com/mclog/mclog-go/pkg/mclog/record"
)

func makeRecords(n int) []record.RawRecord {
	out := make([]record.RawRecord, n)
	for i := range out {
		out[i] = record.RawRecord{Lines: []string{fmt.Sprintf("line %d", i)}}
	}
	return out
}

func TestPage(t *testing.T) {
	tests := []struct {
		name          string
		total         int
		pageIndex     int
		pageSize      int
		wantLen       int
		wantCount     int
		wantFirstLine string
	}{
		{
			name:  "empty input yields one empty page",
			total: 0, pageIndex: 0, pageSize: 10,
			wantLen: 0, wantCount: 1,
		},
		{
			name:  "single partial page",
			total: 3, pageIndex: 0, pageSize: 10,
			wantLen: 3, wantCount: 1, wantFirstLine: "line 0",
		},
		{
			name:  "page zero is the newest records",
			total: 25, pageIndex: 0, pageSize: 10,
			wantLen: 10, wantCount: 3, wantFirstLine: "line 15",
		},
		{
			name:  "middle page",
			total: 25, pageIndex: 1, pageSize: 10,
			wantLen: 10, wantCount: 3, wantFirstLine: "line 5",
		},
		{
			name:  "last page is the remainder",
			total: 25, pageIndex: 2, pageSize: 10,
			wantLen: 5, wantCount: 3, wantFirstLine: "line 0",
		},
		{
			name:  "page index past the end clamps to last page",
			total: 25, pageIndex: 99, pageSize: 10,
			wantLen: 5, wantCount: 3, wantFirstLine: "line 0",
		},
		{
			name:  "negative page index clamps to zero",
			total: 25, pageIndex: -4, pageSize: 10,
			wantLen: 10, wantCount: 3, wantFirstLine: "line 15",
		},
		{
			name:  "exact multiple has no remainder page",
			total: 20, pageIndex: 1, pageSize: 10,
			wantLen: 10, wantCount: 2, wantFirstLine: "line 0",
		},
		{
			name:  "non-positive page size falls back to default",
			total: 5, pageIndex: 0, pageSize: 0,
			wantLen: 5, wantCount: 1, wantFirstLine: "line 0",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, count := Page(makeRecords(tt.total), tt.pageIndex, tt.pageSize)
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
			if count != tt.wantCount {
				t.Errorf("pageCount = %d, want %d", count, tt.wantCount)
			}
			if tt.wantFirstLine != "" && (len(got) == 0 || got[0].Header() != tt.wantFirstLine) {
				t.Errorf("first line = %q, want %q", got[0].Header(), tt.wantFirstLine)
			}
		})
	}
}

// Walking every page from last to first reconstructs the full input in
// order, with no record duplicated or lost.
func TestPage_RoundTrip(t *testing.T) {
	for _, total := range []int{0, 1, 9, 10, 11, 25, 100} {
		records := makeRecords(total)
		_, pageCount := Page(records, 0, 10)

		var rebuilt []record.RawRecord
		for i := pageCount - 1; i >= 0; i-- {
			page, _ := Page(records, i, 10)
			rebuilt = append(rebuilt, page...)
		}
		if len(rebuilt) != total {
			t.Fatalf("total %d: rebuilt %d records", total, len(rebuilt))
		}
		for i := range rebuilt {
			if rebuilt[i].Header() != records[i].Header() {
				t.Fatalf("total %d: record %d = %q, want %q",
					total, i, rebuilt[i].Header(), records[i].Header())
			}
		}
	}
}
