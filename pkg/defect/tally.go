package defect

import "slices"

// ColumnTally counts outcomes for one column.
type ColumnTally struct {
	Rows       int64            `json:"rows"`
	Corrupted  int64            `json:"corrupted"`
	ByStrategy map[string]int64 `json:"by_strategy,omitempty"`
}

// Rate is the observed corruption rate.
func (c ColumnTally) Rate() float64 {
	if c.Rows == 0 {
		return 0
	}
	return float64(c.Corrupted) / float64(c.Rows)
}

// Tally accumulates outcomes per column. It is owned by a single generation
// run and is not safe for concurrent use.
type Tally struct {
	columns map[string]*ColumnTally
	order   []string
}

func NewTally() *Tally {
	return &Tally{columns: make(map[string]*ColumnTally)}
}

// Observe records one outcome for column.
func (t *Tally) Observe(column string, o Outcome) {
	c, ok := t.columns[column]
	if !ok {
		c = &ColumnTally{}
		t.columns[column] = c
		t.order = append(t.order, column)
	}
	c.Rows++
	if !o.Corrupted {
		return
	}
	c.Corrupted++
	if c.ByStrategy == nil {
		c.ByStrategy = make(map[string]int64)
	}
	c.ByStrategy[o.Strategy]++
}

// Column returns the counts for column, zero if never observed.
func (t *Tally) Column(column string) ColumnTally {
	if c, ok := t.columns[column]; ok {
		return *c
	}
	return ColumnTally{}
}

// Columns returns observed column names in first-seen order.
func (t *Tally) Columns() []string {
	return slices.Clone(t.order)
}

// Corrupted is the total number of corrupted values across all columns.
func (t *Tally) Corrupted() int64 {
	var n int64
	for _, c := range t.columns {
		n += c.Corrupted
	}
	return n
}

// Snapshot copies the counts of every column that saw at least one defect.
func (t *Tally) Snapshot() map[string]ColumnTally {
	out := make(map[string]ColumnTally)
	for name, c := range t.columns {
		if c.Corrupted == 0 {
			continue
		}
		cp := *c
		cp.ByStrategy = make(map[string]int64, len(c.ByStrategy))
		for k, v := range c.ByStrategy {
			cp.ByStrategy[k] = v
		}
		out[name] = cp
	}
	return out
}
