package wellimport

import (
	"encoding/csv"
	"io"
	"strconv"
)

// Result records what the import did for one tube.
type Result struct {
	NitgCode   string
	TubeNumber int
	WellAdded  bool
	TubeAdded  bool
}

// Stats counts found and created wells and tubes.
type Stats struct {
	WellsFound, WellsAdded int
	TubesFound, TubesAdded int
}

func Summarize(results []Result) Stats {
	var s Stats
	seen := map[string]bool{}
	for _, r := range results {
		if _, ok := seen[r.NitgCode]; !ok {
			seen[r.NitgCode] = r.WellAdded
			if r.WellAdded {
				s.WellsAdded++
			} else {
				s.WellsFound++
			}
		}
		if r.TubeAdded {
			s.TubesAdded++
		} else {
			s.TubesFound++
		}
	}
	return s
}

// WriteReport writes one line per tube with ja/nee columns.
func WriteReport(w io.Writer, results []Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"put", "peilbuis", "put toegevoegd aan database", "peilbuis toegevoegd aan database"}); err != nil {
		return err
	}
	for _, r := range results {
		rec := []string{r.NitgCode, strconv.Itoa(r.TubeNumber), yesNo(r.WellAdded), yesNo(r.TubeAdded)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func yesNo(b bool) string {
	if b {
		return "ja"
	}
	return "nee"
}
