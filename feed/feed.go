// Package feed loads historical bars for local backtests.
package feed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/evdnx/gorsi/types"
)

var ErrNoBars = errors.New("feed: no bars")

var defaultColumns = map[string]int{
	"time": 0, "open": 1, "high": 2, "low": 3, "close": 4, "volume": 5,
}

// parseHeaders maps column names to indexes. A first row whose leading cell
// parses as a timestamp is data, not a header, and the default order applies.
func parseHeaders(row []string) (map[string]int, bool) {
	if _, err := parseTime(row[0]); err == nil {
		return defaultColumns, false
	}
	cols := make(map[string]int, len(row))
	for i, h := range row {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols, true
}

// parseTime accepts unix seconds or an ISO date / RFC3339 timestamp.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if sec, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(sec, 0).UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(time.RFC3339, s)
}

// ReadCSV parses bars from r. Rows are returned sorted by time.
func ReadCSV(r io.Reader) ([]types.Bar, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNoBars
	}
	cols, hasHeader := parseHeaders(rows[0])
	if hasHeader {
		rows = rows[1:]
	}
	for _, name := range []string{"time", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("feed: missing column %q", name)
		}
	}

	bars := make([]types.Bar, 0, len(rows))
	for n, row := range rows {
		line := n + 1
		if hasHeader {
			line++
		}
		var bar types.Bar
		if bar.Time, err = parseTime(row[cols["time"]]); err != nil {
			return nil, fmt.Errorf("feed: line %d: time: %w", line, err)
		}
		fields := []struct {
			name string
			dst  *float64
		}{
			{"open", &bar.Open},
			{"high", &bar.High},
			{"low", &bar.Low},
			{"close", &bar.Close},
			{"volume", &bar.Volume},
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[f.name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("feed: line %d: %s: %w", line, f.name, err)
			}
			*f.dst = v
		}
		bars = append(bars, bar)
	}
	if len(bars) == 0 {
		return nil, ErrNoBars
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

// LoadCSV reads bars from the file at path.
func LoadCSV(path string) ([]types.Bar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	bars, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bars, nil
}

// Limit keeps the bars strictly newer than d before the last bar.
// A non-positive d returns bars unchanged.
func Limit(bars []types.Bar, d time.Duration) []types.Bar {
	if d <= 0 || len(bars) == 0 {
		return bars
	}
	start := bars[len(bars)-1].Time.Add(-d)
	return lo.Filter(bars, func(b types.Bar, _ int) bool {
		return b.Time.After(start)
	})
}
