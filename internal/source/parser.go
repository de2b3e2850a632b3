// Package source discovers and parses JSONL health-export files.
package source

import (
	"bufio"
	"encoding/json"
	"os"
	"time"

	"github.com/mohdfareed/health-vaults-sub001/internal/model"
)

// ParseResult holds the output of parsing a single JSONL export file.
type ParseResult struct {
	Samples     []model.Sample
	ParseErrors int
	Err         error
}

// ParseFile reads a JSONL export and produces samples. Malformed lines
// are counted, never fatal: exports from phones and watches routinely
// contain truncated or mixed-schema lines and one bad record must not
// lose the rest of the file.
//
// Accepted record shape per line:
//
//	{"type":"weight","date":"2026-01-02","value":82.4}
//
// with type one of weight, intake, bodyfat. Unit normalization: weight
// accepts kg (default) and lb; bodyfat accepts a 0-1 fraction (default)
// or percent.
func ParseFile(path string) ParseResult {
	f, err := os.Open(path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	var (
		samples     []model.Sample
		parseErrors int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec RawRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			parseErrors++
			continue
		}

		sample, ok := recordSample(rec)
		if !ok {
			parseErrors++
			continue
		}
		samples = append(samples, sample)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	return ParseResult{Samples: samples, ParseErrors: parseErrors}
}

// recordSample validates and normalizes one raw record.
func recordSample(rec RawRecord) (model.Sample, bool) {
	if !model.IsValidMetric(rec.Type) {
		return model.Sample{}, false
	}

	day, err := time.ParseInLocation("2006-01-02", rec.Date, time.UTC)
	if err != nil {
		return model.Sample{}, false
	}

	value := rec.Value
	metric := model.Metric(rec.Type)
	switch metric {
	case model.MetricWeight:
		if rec.Unit == "lb" {
			value *= 0.45359237
		}
		if value <= 0 {
			return model.Sample{}, false
		}
	case model.MetricIntake:
		if value < 0 {
			return model.Sample{}, false
		}
	case model.MetricBodyFat:
		if rec.Unit == "percent" {
			value /= 100
		}
		if value <= 0 || value >= 1 {
			return model.Sample{}, false
		}
	}

	var loggedAt time.Time
	if rec.LoggedAt != "" {
		loggedAt, _ = time.Parse(time.RFC3339Nano, rec.LoggedAt)
	}

	return model.Sample{
		Metric:   metric,
		Day:      day,
		Value:    value,
		LoggedAt: loggedAt,
	}, true
}
