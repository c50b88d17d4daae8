package objectstore

import "time"

func parseRFC3339Nano(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
