package bbb

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Param is a single query string entry
type Param struct {
	Key   string
	Value string
}

// Params is an ordered set of query parameters. Keys are unique and keep
// the order in which they were first set. A key that was never set is absent
// and is not serialized.
type Params []Param

// Set stores value under key, replacing any earlier value in place.
func (p *Params) Set(key, value string) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = value
			return
		}
	}
	*p = append(*p, Param{Key: key, Value: value})
}

// SetString sets key only when value is non-empty.
func (p *Params) SetString(key, value string) {
	if value != "" {
		p.Set(key, value)
	}
}

// SetBool sets key to "true"/"false" only when value is non-nil.
func (p *Params) SetBool(key string, value *bool) {
	if value != nil {
		p.Set(key, strconv.FormatBool(*value))
	}
}

// SetInt sets key only when value is non-nil.
func (p *Params) SetInt(key string, value *int) {
	if value != nil {
		p.Set(key, strconv.Itoa(*value))
	}
}

// SetInt64 sets key only when value is non-nil.
func (p *Params) SetInt64(key string, value *int64) {
	if value != nil {
		p.Set(key, strconv.FormatInt(*value, 10))
	}
}

// SetMeta sets one "meta_<name>" entry per metadata key, in sorted key order.
func (p *Params) SetMeta(meta map[string]string) {
	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Set("meta_"+name, meta[name])
	}
}

// Get returns the value stored under key.
func (p Params) Get(key string) (string, bool) {
	for _, kv := range p {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return "", false
}

// Serialize renders params as key=value pairs joined by "&", both sides
// percent-encoded. Empty params serialize to "".
func Serialize(params Params) string {
	pairs := make([]string, 0, len(params))
	for _, kv := range params {
		pairs = append(pairs, escape(kv.Key)+"="+escape(kv.Value))
	}
	return strings.Join(pairs, "&")
}

// escape percent-encodes s with spaces as %20 rather than "+".
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Bool returns a pointer to v, for optional request fields.
func Bool(v bool) *bool { return &v }

// Int returns a pointer to v, for optional request fields.
func Int(v int) *int { return &v }

// Int64 returns a pointer to v, for optional request fields.
func Int64(v int64) *int64 { return &v }
