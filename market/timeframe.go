package market

import (
	"fmt"
	"strings"
)

type TimeFrame int

const (
	Daily TimeFrame = iota
	Weekly
)

func (tf TimeFrame) String() string {
	if tf == Weekly {
		return "weekly"
	}
	return "daily"
}

func ParseTimeFrame(s string) (TimeFrame, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily", "d1", "d":
		return Daily, nil
	case "weekly", "w1", "w":
		return Weekly, nil
	default:
		return Daily, fmt.Errorf("unsupported time frame: %s", s)
	}
}
