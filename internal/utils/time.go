package utils

import (
	"time"

	"github.com/araddon/dateparse"
)

// TimeParser accepts the loose timestamp formats external writers send on
// manual entry (RFC3339, unix epoch, common date layouts) and normalizes
// to UTC.
func TimeParser(datestr string) (time.Time, error) {
	t, err := dateparse.ParseAny(datestr)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
