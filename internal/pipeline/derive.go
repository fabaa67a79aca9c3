package pipeline

import (
	"strings"

	"cordex/adapters/datareadiness/coercer"
	"cordex/domain/table"
	"cordex/internal/errors"
)

// Column names the derivation stage reads and writes
const (
	ColumnPublishTime       = "publish_time"
	ColumnAbstract          = "abstract"
	ColumnTitle             = "title"
	ColumnAuthors           = "authors"
	ColumnJournal           = "journal"
	ColumnSource            = "source_x"
	ColumnYear              = "year"
	ColumnAbstractWordCount = "abstract_word_count"

	// DefaultDropColumn is the sparsely populated identifier excluded from the cleaned table
	DefaultDropColumn = "mag_id"
)

// Deriver adds the derived columns and removes the excluded one
type Deriver struct {
	coercer    *coercer.TypeCoercer
	dropColumn string
}

// NewDeriver creates a deriver. An empty dropColumn means DefaultDropColumn.
func NewDeriver(c *coercer.TypeCoercer, dropColumn string) *Deriver {
	if c == nil {
		c = coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	}
	if dropColumn == "" {
		dropColumn = DefaultDropColumn
	}
	return &Deriver{coercer: c, dropColumn: dropColumn}
}

// ParsePublishDate parses a publish date permissively, missing on any failure
func (d *Deriver) ParsePublishDate(v table.Value) table.Value {
	return d.coercer.ParseTimestampValue(v)
}

// ExtractYear returns the calendar year of a timestamp, missing otherwise
func ExtractYear(v table.Value) table.Value {
	return coercer.OrMissing(v, func(v table.Value) (table.Value, bool) {
		t, ok := v.AsTime()
		if !ok {
			return table.Value{}, false
		}
		return table.NewIntegerValue(int64(t.Year())), true
	})
}

// CountAbstractWords counts whitespace-delimited tokens. A missing abstract stays missing.
func CountAbstractWords(v table.Value) table.Value {
	return coercer.OrMissing(v, func(v table.Value) (table.Value, bool) {
		if v.Missing() {
			return table.Value{}, false
		}
		return table.NewIntegerValue(int64(len(strings.Fields(v.String())))), true
	})
}

// DropColumn removes name from t. An absent column is a COLUMN_NOT_FOUND error.
func DropColumn(t *table.Table, name string) (*table.Table, error) {
	return t.Drop(name)
}

// IsDerived reports whether t already went through Derive
func (d *Deriver) IsDerived(t *table.Table) bool {
	return t.Has(ColumnYear) && t.Has(ColumnAbstractWordCount) && !t.Has(d.dropColumn)
}

// Derive returns raw with publish_time parsed, year and abstract_word_count appended,
// and the drop column removed. Row count and order are preserved. A table that is
// already derived is returned unchanged, so the drop never runs twice.
func (d *Deriver) Derive(raw *table.Table) (*table.Table, error) {
	if d.IsDerived(raw) {
		return raw, nil
	}

	publish, err := raw.Column(ColumnPublishTime)
	if err != nil {
		return nil, errors.Wrap(err, "derive publish date")
	}
	abstract, err := raw.Column(ColumnAbstract)
	if err != nil {
		return nil, errors.Wrap(err, "derive abstract word count")
	}

	n := raw.NumRows()
	parsed := make([]table.Value, n)
	years := make([]table.Value, n)
	words := make([]table.Value, n)
	for i := 0; i < n; i++ {
		parsed[i] = d.ParsePublishDate(publish.Values[i])
		years[i] = ExtractYear(parsed[i])
		words[i] = CountAbstractWords(abstract.Values[i])
	}

	out, err := raw.WithColumn(&table.Column{Name: ColumnPublishTime, Type: table.ColumnTimestamp, Values: parsed})
	if err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(&table.Column{Name: ColumnYear, Type: table.ColumnInteger, Values: years}); err != nil {
		return nil, err
	}
	if out, err = out.WithColumn(&table.Column{Name: ColumnAbstractWordCount, Type: table.ColumnInteger, Values: words}); err != nil {
		return nil, err
	}

	out, err = DropColumn(out, d.dropColumn)
	if err != nil {
		return nil, errors.Wrap(err, "drop sparse column")
	}
	return out, nil
}
