package ingest

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// rbaHeaderRows is the number of descriptive rows before the column header
// in the published F11.1 historical-rates file.
const rbaHeaderRows = 5

const rbaDateLayout = "2-Jan-2006"

// ReadRBARates parses the Reserve Bank of Australia historical exchange-rate
// CSV into per-pair date-to-rate tables keyed "CCY.AUD".
//
// The file quotes foreign currency per one AUD, so values are inverted on the
// way in; downstream wants AUD per unit of foreign currency. The date lives
// in a column headed "Units" because of the file's stacked header rows.
func ReadRBARates(r io.Reader) (map[string]map[time.Time]float64, error) {
	buffered := bufio.NewReader(r)
	for i := 0; i < rbaHeaderRows; i++ {
		if _, err := buffered.ReadString('\n'); err != nil {
			return nil, fmt.Errorf("skip rate file header: %w", err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read rate file header: %w", err)
	}

	dateCol := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "Units" {
			dateCol = i
		}
	}
	if dateCol < 0 {
		return nil, errors.New("rate file missing Units column")
	}

	results := make(map[string]map[time.Time]float64)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rate file: %w", err)
		}
		if dateCol >= len(record) {
			continue
		}

		date, err := time.Parse(rbaDateLayout, strings.TrimSpace(record[dateCol]))
		if err != nil {
			// Trailing metadata rows carry no date; skip them.
			continue
		}

		for i, value := range record {
			name := strings.TrimSpace(header[i])
			if i == dateCol || name == "Index" || name == "" {
				continue
			}
			value = strings.TrimSpace(value)
			if value == "" {
				continue
			}

			quoted, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("rate file %s on %s: parse %q: %w",
					name, date.Format("2006-01-02"), value, err)
			}

			pair := name + ".AUD"
			if results[pair] == nil {
				results[pair] = make(map[time.Time]float64)
			}
			results[pair][date] = 1 / quoted
		}
	}

	return results, nil
}
