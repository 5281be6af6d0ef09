package headers

import (
	"bytes"
	"iter"
	"strings"

	"golang.org/x/net/http/httpguts"
)

type field struct {
	name  string // as received
	value string
}

// Headers is a single-value-per-name header map. Lookup ignores case,
// iteration yields names as they were spelled, in first-insertion order.
// The zero value is an empty map ready to use.
type Headers struct {
	fields map[string]*field
	order  []string // normalized keys
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// Set stores value under key, replacing any earlier value. Names that are not
// HTTP tokens and values with control characters are dropped.
func (h *Headers) Set(key, value string) {
	if !httpguts.ValidHeaderFieldName(key) || !httpguts.ValidHeaderFieldValue(value) {
		// drop invalid headers to prevent request splitting
		return
	}
	h.set(key, value)
}

// Put stores value under key as received, without validation. It is meant
// for fields that were already split off the wire by SplitFieldLine.
func (h *Headers) Put(key, value string) {
	h.set(key, value)
}

func (h *Headers) set(key, value string) {
	if h.fields == nil {
		h.fields = map[string]*field{}
	}
	nk := normalizeKey(key)
	if f, ok := h.fields[nk]; ok {
		// last one wins
		f.name = key
		f.value = value
		return
	}
	h.fields[nk] = &field{name: key, value: value}
	h.order = append(h.order, nk)
}

// Get returns the value of a header, or "" if it is absent.
func (h *Headers) Get(key string) string {
	v, _ := h.Lookup(key)
	return v
}

// Lookup returns the value of a header and whether it is present.
func (h *Headers) Lookup(key string) (string, bool) {
	f, ok := h.fields[normalizeKey(key)]
	if !ok {
		return "", false
	}
	return f.value, true
}

// Remove removes a header.
func (h *Headers) Remove(key string) {
	nk := normalizeKey(key)
	if _, ok := h.fields[nk]; !ok {
		return
	}
	delete(h.fields, nk)
	for i, k := range h.order {
		if k == nk {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}

// All returns an iterator over all headers.
func (h *Headers) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, k := range h.order {
			f := h.fields[k]
			if !yield(f.name, f.value) {
				return
			}
		}
	}
}

// SplitFieldLine splits a `name:value` line at the first colon. Exactly one
// space following the colon is removed from the value.
func SplitFieldLine(data []byte) (name, value string, err error) {
	colonPos := bytes.IndexByte(data, ':')
	if colonPos == -1 {
		// colon not found
		return "", "", ErrMalformedHeader
	}

	hkey := data[:colonPos]
	hvalue := data[colonPos+1:]
	if len(hvalue) > 0 && hvalue[0] == ' ' {
		hvalue = hvalue[1:]
	}

	if !httpguts.ValidHeaderFieldName(string(hkey)) {
		// covers empty names and whitespace before the colon
		return "", "", ErrMalformedHeader
	}
	return string(hkey), string(hvalue), nil
}

// ParseFieldLine parses a single header line and stores it. The value is
// kept as received.
func (h *Headers) ParseFieldLine(data []byte) (name, value string, err error) {
	name, value, err = SplitFieldLine(data)
	if err != nil {
		return "", "", err
	}
	h.set(name, value)
	return name, value, nil
}

// Size returns the number of headers.
func (h *Headers) Size() int {
	return len(h.order)
}

// NewHeaders creates a new Headers object.
func NewHeaders() *Headers {
	return &Headers{
		fields: map[string]*field{},
	}
}
