package library

import (
	"strconv"
	"time"

	"tunebridge/internal/library/plist"
)

// Kind tags the variant stored in a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindString
	KindInteger
	KindDate
	KindBoolean
	KindList
	KindNode
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindDate:
		return "date"
	case KindBoolean:
		return "boolean"
	case KindList:
		return "list"
	case KindNode:
		return "node"
	default:
		return "invalid"
	}
}

// Value is a single decoded field value. The zero Value is KindInvalid.
type Value struct {
	kind    Kind
	text    string
	integer int64
	date    time.Time
	boolean bool
	list    []Record
	node    *plist.Node
}

func StringValue(s string) Value { return Value{kind: KindString, text: s} }

func IntegerValue(n int64) Value { return Value{kind: KindInteger, integer: n} }

// DateValue keeps the raw text and, when it parses as RFC 3339, the instant.
func DateValue(raw string) Value {
	v := Value{kind: KindDate, text: raw}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		v.date = ts
	}
	return v
}

func BoolValue(b bool) Value { return Value{kind: KindBoolean, boolean: b} }

func ListValue(records []Record) Value { return Value{kind: KindList, list: records} }

func NodeValue(n *plist.Node) Value { return Value{kind: KindNode, node: n} }

func (v Value) Kind() Kind { return v.kind }

// Text renders scalar values as text. Lists and nodes render as "".
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindDate:
		return v.text
	case KindInteger:
		return strconv.FormatInt(v.integer, 10)
	case KindBoolean:
		return strconv.FormatBool(v.boolean)
	default:
		return ""
	}
}

// Int returns the integer held by v. String values holding a decimal integer
// are accepted too, since exporters are not consistent about the element used.
func (v Value) Int() (int64, bool) {
	switch v.kind {
	case KindInteger:
		return v.integer, true
	case KindString:
		n, err := strconv.ParseInt(v.text, 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Time returns the parsed date, or the zero time when v is not a valid date.
func (v Value) Time() time.Time { return v.date }

func (v Value) Bool() bool { return v.kind == KindBoolean && v.boolean }

func (v Value) List() []Record { return v.list }

func (v Value) Node() *plist.Node { return v.node }
