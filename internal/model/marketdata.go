package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// SystemPricesResponse matches the JSON shape of the BMRS
// balancing/settlement/system-prices endpoint.
//
// Example:
//
//	{
//	  "data": [ { "startTime": "2023-10-24T00:00:00Z", ... }, ... ]
//	}
//
// Records are kept raw so that one bad record is reported with its index
// instead of failing the whole decode.
type SystemPricesResponse struct {
	Data []json.RawMessage `json:"data"`
}

// Field names of a system price record. startTime and the three numeric
// fields are required; settlementDate and settlementPeriod are optional.
const (
	FieldStartTime          = "startTime"
	FieldSettlementDate     = "settlementDate"
	FieldSettlementPeriod   = "settlementPeriod"
	FieldSystemSellPrice    = "systemSellPrice"
	FieldSystemBuyPrice     = "systemBuyPrice"
	FieldNetImbalanceVolume = "netImbalanceVolume"
)

// Interval is one validated half-hourly observation.
// Prices are currency per MWh, volume is MWh.
// Convention: negative NetImbalanceVolume = net sell position, otherwise net buy.
type Interval struct {
	Start            time.Time
	SettlementDate   string
	SettlementPeriod int

	SystemSellPrice    decimal.Decimal
	SystemBuyPrice     decimal.Decimal
	NetImbalanceVolume decimal.Decimal
}

// Hour is the UTC hour-of-day (0-23) the interval starts in.
func (i Interval) Hour() int {
	return i.Start.UTC().Hour()
}

// Date is the UTC calendar day the interval starts in, truncated to midnight.
func (i Interval) Date() time.Time {
	y, m, d := i.Start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
