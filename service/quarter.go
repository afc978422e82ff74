package service

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/cbam_end/models"
)

// ErrInvalidQuarter quarter label is not of the form Q<1-4>-<year>
var ErrInvalidQuarter = errors.New("invalid quarter label")

var quarterPattern = regexp.MustCompile(`^[Qq]([1-4])-(\d{4})$`)

// Quarter calendar quarter
type Quarter struct {
	Year   int
	Number int // 1..4
}

// QuarterOf returns the quarter containing t.
func QuarterOf(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Number: (int(t.Month())-1)/3 + 1}
}

// CalendarDate keeps the calendar day of t as seen in its own zone and returns
// it as midnight UTC. Quarters are always derived from that day.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// QuarterLabel returns the Q<n>-<year> label of t.
func QuarterLabel(t time.Time) string {
	return QuarterOf(t).Label()
}

// ParseQuarter parses a Q<1-4>-<yyyy> label. Only canonical labels are
// accepted so that Label returns the input up to case.
func ParseQuarter(label string) (Quarter, error) {
	m := quarterPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, label)
	}
	number, _ := strconv.Atoi(m[1])
	year, _ := strconv.Atoi(m[2])
	if year < 1000 {
		return Quarter{}, fmt.Errorf("%w: %q", ErrInvalidQuarter, label)
	}
	return Quarter{Year: year, Number: number}, nil
}

// Label formats the quarter as Q<n>-<year>.
func (q Quarter) Label() string {
	return fmt.Sprintf("Q%d-%d", q.Number, q.Year)
}

// Before reports whether q is chronologically before other.
func (q Quarter) Before(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Number < other.Number
}

// Next returns the following quarter.
func (q Quarter) Next() Quarter {
	if q.Number == 4 {
		return Quarter{Year: q.Year + 1, Number: 1}
	}
	return Quarter{Year: q.Year, Number: q.Number + 1}
}

// Start returns the first instant of the quarter in UTC.
func (q Quarter) Start() time.Time {
	return time.Date(q.Year, time.Month((q.Number-1)*3+1), 1, 0, 0, 0, 0, time.UTC)
}

// SortQuarters sorts quarters chronologically in place.
func SortQuarters(quarters []Quarter) {
	sort.Slice(quarters, func(i, j int) bool {
		return quarters[i].Before(quarters[j])
	})
}

// PresentQuarters returns the distinct quarters of the imports in chronological order.
// The quarter of each row is always derived from its date.
func PresentQuarters(imports []models.GoodsImport) []Quarter {
	seen := make(map[Quarter]bool)
	var quarters []Quarter
	for _, row := range imports {
		q := QuarterOf(row.Date)
		if !seen[q] {
			seen[q] = true
			quarters = append(quarters, q)
		}
	}
	SortQuarters(quarters)
	return quarters
}

// NormalizeImport stamps the derived quarter label onto the row.
func NormalizeImport(row *models.GoodsImport) {
	row.Quarter = QuarterLabel(row.Date)
}
