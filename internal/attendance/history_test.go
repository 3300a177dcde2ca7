package attendance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildHistoryWhereEmpty(t *testing.T) {
	where, args := buildHistoryWhere(HistoryFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	// "all" sentinels mean unfiltered
	where, args = buildHistoryWhere(HistoryFilter{Status: "all", ClassID: "all"})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildHistoryWhereCombinesWithAND(t *testing.T) {
	where, args := buildHistoryWhere(HistoryFilter{
		Status:    "present",
		StartDate: "2026-01-01",
		EndDate:   "2026-01-31",
		ClassID:   "class-1",
		Search:    "budi",
	})

	assert.Equal(t, 7, len(args), "status + 2 dates + class + 3 search patterns")
	assert.True(t, strings.HasPrefix(where, " AND "))
	assert.Equal(t, 5, strings.Count(where, " AND "), "leading AND plus four joined conditions")
	assert.Contains(t, where, "sa.status = $1")
	assert.Contains(t, where, "sa.check_in_time >= $2::date")
	assert.Contains(t, where, "sa.check_in_time < $3::date + interval '1 day'")
	assert.Contains(t, where, "s.class_id = $4")
	assert.Contains(t, where, "u.fullname ILIKE $5 OR u.student_id ILIKE $6 OR c.course_name ILIKE $7")
	assert.Equal(t, "%budi%", args[4])
}

func TestBuildHistoryWherePlaceholdersStayOrdered(t *testing.T) {
	where, args := buildHistoryWhere(HistoryFilter{EndDate: "2026-02-01", Search: "x"})
	assert.Contains(t, where, "$1::date")
	assert.Contains(t, where, "ILIKE $2")
	assert.Contains(t, where, "ILIKE $4")
	assert.Len(t, args, 4)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, totalPages(0, 10))
	assert.Equal(t, 1, totalPages(1, 10))
	assert.Equal(t, 1, totalPages(10, 10))
	assert.Equal(t, 2, totalPages(11, 10))
	assert.Equal(t, 3, totalPages(25, 10))
	assert.Equal(t, 0, totalPages(25, 0))
}
