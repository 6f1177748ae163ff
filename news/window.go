package news

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout 是 NewsAPI from/to 参数的日期格式。
const DateLayout = "2006-01-02"

// Window 是回溯的时间窗口。
type Window struct {
	Days  int
	Label string
}

var (
	WindowDay   = Window{Days: 1, Label: "depuis hier"}
	WindowWeek  = Window{Days: 7, Label: "depuis 7 jours"}
	WindowMonth = Window{Days: 30, Label: "depuis 30 jours"}
)

// ParseWindow 接受 1d/7d/30d、yesterday/week/month 以及界面上的法语标签。
func ParseWindow(s string) (Window, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1d", "yesterday", "day", "depuis hier":
		return WindowDay, nil
	case "7d", "week", "depuis 7 jours":
		return WindowWeek, nil
	case "30d", "month", "depuis 30 jours":
		return WindowMonth, nil
	default:
		return Window{}, fmt.Errorf("window: unknown value %q (1d|7d|30d)", s)
	}
}

func (w Window) String() string { return w.Label }

// Range 返回 [from, to]：from 为 Days 天前的零点（now 所在时区），to 为 now。
func (w Window) Range(now time.Time) (from, to time.Time) {
	y, m, d := now.Date()
	from = time.Date(y, m, d-w.Days, 0, 0, 0, 0, now.Location())
	return from, now
}
