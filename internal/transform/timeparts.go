package transform

import (
	"time"

	"github.com/vvka-141/sparkload/pkg/sparkload"
)

// NewTimeRow derives the time dimension row for an epoch-millisecond
// timestamp, in UTC.
func NewTimeRow(ms int64) sparkload.TimeRow {
	t := time.UnixMilli(ms).UTC()
	_, week := t.ISOWeek()
	return sparkload.TimeRow{
		StartTime: t,
		Hour:      t.Hour(),
		Day:       t.Day(),
		Week:      week,
		Month:     int(t.Month()),
		Year:      t.Year(),
		Weekday:   (int(t.Weekday()) + 6) % 7,
	}
}
