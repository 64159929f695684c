package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ParseRecords converts raw records into intervals ordered by start time.
// The first bad record aborts the conversion with a *RecordError wrapping ErrMalformedRecord.
// Records sharing a start time are kept in input order.
func ParseRecords(records []json.RawMessage) ([]Interval, error) {
	out := make([]Interval, 0, len(records))
	for idx, raw := range records {
		it, err := ParseRecord(idx, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out, nil
}

// ParseResponse is ParseRecords over a whole API response. A nil response yields no intervals.
func ParseResponse(resp *SystemPricesResponse) ([]Interval, error) {
	if resp == nil {
		return []Interval{}, nil
	}
	return ParseRecords(resp.Data)
}

// ParseRecord validates a single raw record. index is only used for error reporting.
func ParseRecord(index int, raw json.RawMessage) (Interval, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Interval{}, &RecordError{Index: index, Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}
	if fields == nil {
		return Interval{}, &RecordError{Index: index, Err: fmt.Errorf("%w: record is null", ErrMalformedRecord)}
	}

	var it Interval
	var err error

	if it.Start, err = parseStartTime(fields[FieldStartTime]); err != nil {
		return Interval{}, &RecordError{Index: index, Field: FieldStartTime, Err: err}
	}
	if it.SystemSellPrice, err = parseNumber(fields[FieldSystemSellPrice]); err != nil {
		return Interval{}, &RecordError{Index: index, Field: FieldSystemSellPrice, Err: err}
	}
	if it.SystemBuyPrice, err = parseNumber(fields[FieldSystemBuyPrice]); err != nil {
		return Interval{}, &RecordError{Index: index, Field: FieldSystemBuyPrice, Err: err}
	}
	if it.NetImbalanceVolume, err = parseNumber(fields[FieldNetImbalanceVolume]); err != nil {
		return Interval{}, &RecordError{Index: index, Field: FieldNetImbalanceVolume, Err: err}
	}

	// Optional metadata: ignored when absent or of an unexpected type.
	if v, ok := fields[FieldSettlementDate]; ok {
		var s string
		if json.Unmarshal(v, &s) == nil {
			it.SettlementDate = s
		}
	}
	if v, ok := fields[FieldSettlementPeriod]; ok {
		var n int
		if json.Unmarshal(v, &n) == nil {
			it.SettlementPeriod = n
		}
	}
	return it, nil
}

func isAbsent(v json.RawMessage) bool {
	return len(v) == 0 || bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func parseStartTime(v json.RawMessage) (time.Time, error) {
	if isAbsent(v) {
		return time.Time{}, fmt.Errorf("%w: required field absent", ErrMalformedRecord)
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return time.Time{}, fmt.Errorf("%w: expected ISO-8601 string: %v", ErrMalformedRecord, err)
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	return t.UTC(), nil
}

// parseNumber accepts a JSON number or a numeric string.
func parseNumber(v json.RawMessage) (decimal.Decimal, error) {
	if isAbsent(v) {
		return decimal.Zero, fmt.Errorf("%w: required field absent", ErrMalformedRecord)
	}
	v = bytes.TrimSpace(v)
	if v[0] == '"' {
		s, err := strconv.Unquote(string(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: non-numeric value %q", ErrMalformedRecord, s)
		}
		return d, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return decimal.Zero, fmt.Errorf("%w: non-numeric value %s", ErrMalformedRecord, string(v))
	}
	d, err := decimal.NewFromString(n.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: non-numeric value %s", ErrMalformedRecord, n.String())
	}
	return d, nil
}
