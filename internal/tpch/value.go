package tpch

import "strconv"

// ColumnKind tags how a column's underlying int64/string value should be
// formatted for text sinks and typed for the Parquet schema.
type ColumnKind int

const (
	KindInt ColumnKind = iota
	KindDecimal
	KindDate
	KindString
)

// Value is a single field of a generated row. Numeric and date columns
// carry their value in I (decimals pre-scaled by 100, dates as days since
// the Unix epoch); string columns carry it in S. A single representation
// for every column keeps the text and Parquet sinks working off the same
// generated row instead of two diverging encodings.
type Value struct {
	Kind ColumnKind
	I    int64
	S    string
}

func IntValue(v int64) Value     { return Value{Kind: KindInt, I: v} }
func StringValue(v string) Value { return Value{Kind: KindString, S: v} }
func DecimalValue(d decimal) Value {
	return Value{Kind: KindDecimal, I: int64(d)}
}
func DateValue(d date) Value { return Value{Kind: KindDate, I: int64(d)} }

// Text renders the field the way the tbl/csv sink requires: plain
// integers, two-decimal fixed point, YYYY-MM-DD dates, raw strings (CSV
// escaping, if any, is the sink's job since it is format-specific).
func (v Value) Text() string {
	switch v.Kind {
	case KindInt:
		return strconv.FormatInt(v.I, 10)
	case KindDecimal:
		return decimal(v.I).String()
	case KindDate:
		return date(int32(v.I)).String()
	default:
		return v.S
	}
}

// Row is one generated record in the table's fixed column order.
type Row []Value
