// Package domain defines the core data model shared by the pipeline,
// platform clients, and delivery code: insider transactions, aggregate
// projections, and sentinel errors.
package domain

import "time"

// Transaction codes reported by the transaction source.
const (
	CodePurchase = "P"
	CodeSale     = "S"
)

// RawTransaction is one insider-filing record exactly as returned by the
// transaction source, before any parsing, deduplication, or filtering.
// Dates are kept as source strings; Change is nil when the field was absent.
type RawTransaction struct {
	Symbol           string
	Name             string
	FilingDate       string
	TransactionDate  string
	Change           *float64
	TransactionCode  string
	TransactionPrice float64
	Share            float64
}

// Transaction is a normalized insider transaction: dates parsed, the share
// delta coerced to a number, ticker canonicalized. Instances are immutable
// once produced and live only for the duration of one pipeline run.
type Transaction struct {
	Ticker          string
	InsiderName     string
	FilingDate      time.Time // zero when the source date was unparseable
	TransactionDate time.Time // zero when the source date was unparseable
	Shares          float64   // signed share delta; 0 when missing or invalid
	Code            string
	Price           float64 // transaction price; 0 when not reported
	Holding         float64 // post-transaction total holding; 0 when not reported
}

// NetActivity is the summed signed share delta for one ticker over the
// observation window.
type NetActivity struct {
	Ticker string
	Shares float64
}
