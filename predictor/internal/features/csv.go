package features

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

var ErrMalformedCSV = errors.New("malformed trace csv")

// ReadTrace parses a two column time_sec,value recording. The first row is a
// header when its time field is not a number. A non-positive sampleRateHz is
// inferred from the time column.
func ReadTrace(r io.Reader, sampleRateHz float64) (Trace, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Trace{}, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	first := 0
	if len(records) > 0 && isHeader(records[0]) {
		first = 1
	}
	if len(records) == first {
		return Trace{}, fmt.Errorf("%w: no data records", ErrMalformedCSV)
	}

	times := make([]float64, 0, len(records)-first)
	values := make([]float64, 0, len(records)-first)
	for i, record := range records[first:] {
		line := i + first + 1
		if len(record) < 2 {
			return Trace{}, fmt.Errorf("%w: line %d: expected 2 columns", ErrMalformedCSV, line)
		}

		timeSec, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
		if err != nil {
			return Trace{}, fmt.Errorf("%w: line %d: invalid time: %v", ErrMalformedCSV, line, err)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
		if err != nil {
			return Trace{}, fmt.Errorf("%w: line %d: invalid value: %v", ErrMalformedCSV, line, err)
		}

		times = append(times, timeSec)
		values = append(values, value)
	}

	if sampleRateHz <= 0 {
		sampleRateHz, err = inferSampleRate(times)
		if err != nil {
			return Trace{}, err
		}
	}

	return Trace{Values: values, SampleRateHz: sampleRateHz}, nil
}

// ReadTraceFile opens filename and parses it with ReadTrace.
func ReadTraceFile(filename string, sampleRateHz float64) (Trace, error) {
	file, err := os.Open(filename)
	if err != nil {
		return Trace{}, fmt.Errorf("failed to open trace file %s: %w", filename, err)
	}
	defer file.Close()

	trace, err := ReadTrace(file, sampleRateHz)
	if err != nil {
		return Trace{}, fmt.Errorf("%s: %w", filename, err)
	}
	return trace, nil
}

func isHeader(record []string) bool {
	if len(record) == 0 {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	return err != nil
}

func inferSampleRate(times []float64) (float64, error) {
	if len(times) < 2 {
		return 0, ErrTraceTooShort
	}
	span := times[len(times)-1] - times[0]
	if !(span > 0) {
		return 0, fmt.Errorf("%w: time column must increase", ErrInvalidSampleRate)
	}
	return float64(len(times)-1) / span, nil
}
