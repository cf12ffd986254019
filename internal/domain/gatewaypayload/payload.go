// Package gatewaypayload reads PIX gateway bodies whose shape varies across
// gateway versions and accounts.
//
// The gateway has nested the PIX data under different keys over time. Lookups
// are kept as ordered tables; when the gateway changes again, append a new
// entry instead of editing or removing an existing one.
package gatewaypayload

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
)

var ErrNotAnObject = errors.New("gateway body is not a json object")

type Body map[string]any

// Decode parses a gateway body. Numbers are kept as json.Number so large
// numeric ids survive without float rounding.
func Decode(raw []byte) (Body, error) {
	dec := json.NewDecoder(strings.NewReader(string(raw)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return Body(m), nil
}

// Root is the "data" envelope when present, else the body itself.
func Root(b Body) Body {
	if m := object(b, "data"); m != nil {
		return m
	}
	return b
}

// Transaction is root.transaction when present, else root.
func Transaction(root Body) Body {
	if m := object(root, "transaction"); m != nil {
		return m
	}
	return root
}

// TransactionID returns the gateway-assigned id, or "" when none is present.
func TransactionID(b Body) string {
	root := Root(b)
	tx := Transaction(root)
	return firstString(
		str(root, "transactionId"),
		str(tx, "id"),
		str(root, "id"),
		str(b, "id"),
		str(root, "identifier"),
	)
}

// Status returns the raw gateway status, untouched.
func Status(b Body) string {
	root := Root(b)
	return firstString(
		str(root, "status"),
		str(Transaction(root), "status"),
		str(b, "status"),
	)
}

// ErrorMessage returns the gateway's own error message, verbatim.
func ErrorMessage(b Body) string {
	return firstString(
		str(b, "message"),
		str(b, "error"),
		str(object(b, "data"), "message"),
	)
}

func object(b Body, key string) Body {
	if b == nil {
		return nil
	}
	if m, ok := b[key].(map[string]any); ok {
		return Body(m)
	}
	return nil
}

func path(b Body, keys ...string) Body {
	cur := b
	for _, k := range keys {
		cur = object(cur, k)
		if cur == nil {
			return nil
		}
	}
	return cur
}

// str returns the value at key as a trimmed string. Integral numbers are
// formatted without a decimal point.
func str(b Body, key string) string {
	if b == nil {
		return ""
	}
	switch v := b[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
