// Package partitions implements the year-partitioned storage of outings:
// the registry that creates one table per calendar year, the per-partition
// prepared statement sets and the cache that keeps them open while in use.
package partitions

import (
	"regexp"
	"strconv"

	"github.com/dmitrijs2005/boathouse/internal/common"
)

const (
	// TablePrefix is prepended to the 4-digit year to name a partition table.
	TablePrefix = "outings_"

	MinYear = 1000
	MaxYear = 9999
)

var tableNameRe = regexp.MustCompile(`^outings_([0-9]{4})$`)

// TableName maps a year to its partition identifier. It is the only way a
// table name is produced, so no caller-supplied text ever reaches SQL.
func TableName(year int) (string, error) {
	if year < MinYear || year > MaxYear {
		return "", common.InvalidArgument("partition year %d out of range [%d, %d]", year, MinYear, MaxYear)
	}
	return TablePrefix + strconv.Itoa(year), nil
}

// ParseTableName is the inverse of TableName. It reports false for names
// that do not follow the partition naming convention.
func ParseTableName(name string) (int, bool) {
	m := tableNameRe.FindStringSubmatch(name)
	if m == nil {
		return 0, false
	}
	year, err := strconv.Atoi(m[1])
	if err != nil || year < MinYear {
		return 0, false
	}
	return year, true
}
