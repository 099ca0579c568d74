package partition

// Table maps each RecordingKey to its rows in input order. Keys are kept in
// first-seen order so iteration is deterministic.
type Table struct {
	rows  map[RecordingKey][]DetectionRow
	order []RecordingKey
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{rows: make(map[RecordingKey][]DetectionRow)}
}

// Add appends row to the entry for key.
func (t *Table) Add(key RecordingKey, row DetectionRow) {
	if _, ok := t.rows[key]; !ok {
		t.order = append(t.order, key)
	}
	t.rows[key] = append(t.rows[key], row)
}

// Keys returns the keys in first-seen order.
func (t *Table) Keys() []RecordingKey {
	return append([]RecordingKey(nil), t.order...)
}

// Rows returns the rows recorded for key.
func (t *Table) Rows(key RecordingKey) []DetectionRow {
	return t.rows[key]
}

// Len returns the number of recording windows.
func (t *Table) Len() int {
	return len(t.order)
}

// TotalRows returns the number of rows across all entries.
func (t *Table) TotalRows() int {
	total := 0
	for _, rows := range t.rows {
		total += len(rows)
	}
	return total
}
