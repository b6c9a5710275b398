// Package dataset loads the report's CSV files into dataframes and converts
// them to domain tables.
package dataset

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// naValues are the cell spellings read as missing.
var naValues = []string{"", "NA", "N/A", "NaN", "nan", "<nil>"}

// readFrame parses a CSV file into a dataframe. skipLines drops leading lines
// before the header row. A UTF-8 byte order mark is ignored.
func readFrame(path string, skipLines int, opts ...dataframe.LoadOption) (dataframe.DataFrame, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	for i := 0; i < skipLines; i++ {
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			return dataframe.DataFrame{}, fmt.Errorf("read %s: fewer than %d lines before header", filepath.Base(path), skipLines+1)
		}
		data = data[nl+1:]
	}

	loadOpts := append([]dataframe.LoadOption{
		dataframe.HasHeader(true),
		dataframe.NaNValues(naValues),
	}, opts...)

	df := dataframe.ReadCSV(bytes.NewReader(data), loadOpts...)
	if df.Err != nil {
		return df, fmt.Errorf("parse %s: %w", filepath.Base(path), df.Err)
	}
	return df, nil
}

// requireColumns fails with the first missing column name.
func requireColumns(df dataframe.DataFrame, cols ...string) error {
	have := make(map[string]struct{}, df.Ncol())
	for _, n := range df.Names() {
		have[n] = struct{}{}
	}
	for _, c := range cols {
		if _, ok := have[c]; !ok {
			return fmt.Errorf("missing column %q", c)
		}
	}
	return nil
}

func hasColumn(df dataframe.DataFrame, col string) bool {
	for _, n := range df.Names() {
		if n == col {
			return true
		}
	}
	return false
}

// parseNumber reads a float that may carry thousands separators ("1,234.5").
// Missing or unparseable cells are NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	for _, na := range naValues {
		if s == na {
			return math.NaN()
		}
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
