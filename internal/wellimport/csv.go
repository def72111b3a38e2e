package wellimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Row is one tube of a well in the import file.
type Row struct {
	Line         int
	NitgCode     string
	TubeNumber   int
	Lon          float64
	Lat          float64
	BroID        string
	WellCode     string
	Organisation string
	GMNs         []string
	GLDBroID     string
	Removed      bool
	Remark       string
}

var required = []string{"nitg_code", "tube_number", "lon", "lat"}

func ParseFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCSV(bufio.NewReader(f))
}

// ParseCSV reads rows keyed by header name. Column order is free and unknown
// columns are ignored.
func ParseCSV(in io.Reader) ([]Row, error) {
	r := csv.NewReader(in)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, errors.New("csv has no data rows")
	}

	header := records[0]
	// Handle BOM on first header cell
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	col := map[string]int{}
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, k := range required {
		if _, ok := col[k]; !ok {
			return nil, fmt.Errorf("missing required column: %s", k)
		}
	}

	var out []Row
	for rowIdx := 1; rowIdx < len(records); rowIdx++ {
		rec := records[rowIdx]
		line := rowIdx + 1
		get := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		row := Row{
			Line:         line,
			NitgCode:     get("nitg_code"),
			BroID:        get("bro_id"),
			WellCode:     get("well_code"),
			Organisation: get("organisation"),
			GLDBroID:     get("gld_bro_id"),
			Remark:       get("remark"),
		}
		if row.NitgCode == "" {
			return nil, fmt.Errorf("row %d: nitg_code is required", line)
		}

		if row.TubeNumber, err = strconv.Atoi(get("tube_number")); err != nil || row.TubeNumber < 1 {
			return nil, fmt.Errorf("row %d: tube_number must be a positive integer (got %q)", line, get("tube_number"))
		}
		if row.Lon, err = parseCoord(get("lon")); err != nil {
			return nil, fmt.Errorf("row %d: lon: %w", line, err)
		}
		if row.Lat, err = parseCoord(get("lat")); err != nil {
			return nil, fmt.Errorf("row %d: lat: %w", line, err)
		}

		switch strings.ToLower(get("removed")) {
		case "", "nee", "no", "false", "0":
		case "ja", "yes", "true", "1":
			row.Removed = true
		default:
			return nil, fmt.Errorf("row %d: removed must be ja or nee (got %q)", line, get("removed"))
		}

		for _, g := range strings.Split(get("gmns"), ";") {
			if g = strings.TrimSpace(g); g != "" {
				row.GMNs = append(row.GMNs, g)
			}
		}

		out = append(out, row)
	}

	return out, nil
}

// parseCoord accepts both decimal points and the Dutch decimal comma.
func parseCoord(s string) (float64, error) {
	if s == "" {
		return 0, errors.New("value is required")
	}
	return strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
}

// BBox is a lon/lat rectangle. Rows outside it are skipped.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
}

// Zeeland covers the province with some margin.
var Zeeland = BBox{MinLon: 3.2, MinLat: 51.2, MaxLon: 4.3, MaxLat: 51.8}

func (b BBox) Contains(lon, lat float64) bool {
	return lon > b.MinLon && lon < b.MaxLon && lat > b.MinLat && lat < b.MaxLat
}

// Filter keeps rows that are still in the field, carry no remark and lie
// inside the box.
func Filter(rows []Row, box BBox) []Row {
	out := make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.Removed || r.Remark != "" || !box.Contains(r.Lon, r.Lat) {
			continue
		}
		out = append(out, r)
	}
	return out
}
