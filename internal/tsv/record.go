package tsv

// Header is an ordered list of column names with name lookup.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader creates a header from column names. If a name repeats, lookups
// resolve to its first position.
func NewHeader(names []string) *Header {
	h := &Header{
		names: names,
		index: make(map[string]int, len(names)),
	}
	for i, name := range names {
		if _, ok := h.index[name]; !ok {
			h.index[name] = i
		}
	}
	return h
}

// Names returns the column names in file order.
func (h *Header) Names() []string {
	return h.names
}

// Len returns the number of columns.
func (h *Header) Len() int {
	return len(h.names)
}

// Has reports whether the header contains the named column.
func (h *Header) Has(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Index returns the position of the named column, or -1.
func (h *Header) Index(name string) int {
	if i, ok := h.index[name]; ok {
		return i
	}
	return -1
}

// Record is a single row keyed by the header's column names.
// Values set with Set shadow the original field of the same name.
type Record struct {
	header  *Header
	values  []string
	derived map[string]string
}

// NewRecord creates a record from a header and its row values.
func NewRecord(h *Header, values []string) *Record {
	return &Record{header: h, values: values}
}

// Get returns the value of the named field and whether it exists.
func (r *Record) Get(name string) (string, bool) {
	if v, ok := r.derived[name]; ok {
		return v, true
	}
	if r.header == nil {
		return "", false
	}
	i := r.header.Index(name)
	if i < 0 || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Value returns the value of the named field, or "" if it does not exist.
func (r *Record) Value(name string) string {
	v, _ := r.Get(name)
	return v
}

// Set assigns a field value.
func (r *Record) Set(name, value string) {
	if r.derived == nil {
		r.derived = make(map[string]string)
	}
	r.derived[name] = value
}
