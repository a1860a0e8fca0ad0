package partitions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/boathouse/internal/dbx"
)

// Columns is the column order of every partition table and of every SELECT
// issued against one.
var Columns = []string{
	"id", "day",
	"rower1", "rower2", "rower3", "rower4", "rower5", "rower6", "rower7", "rower8",
	"cox", "time_out", "time_in", "comment", "destination", "boat", "distance",
}

// memberColumns are the columns that reference a member.
var memberColumns = []string{
	"rower1", "rower2", "rower3", "rower4", "rower5", "rower6", "rower7", "rower8", "cox",
}

// Variant selects one of the range query shapes.
type Variant int

const (
	VariantAll Variant = iota
	VariantBoat
	VariantMember
	VariantMemberBoat

	variantCount
)

func (v Variant) String() string {
	switch v {
	case VariantAll:
		return "all"
	case VariantBoat:
		return "boat"
	case VariantMember:
		return "member"
	case VariantMemberBoat:
		return "member+boat"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Filter restricts a range query. A member matches when it sits in any seat
// or coxes; nil fields do not constrain.
type Filter struct {
	MemberID *int64
	BoatID   *int64
}

// Variant returns the query shape matching the filters present.
func (f Filter) Variant() Variant {
	switch {
	case f.MemberID != nil && f.BoatID != nil:
		return VariantMemberBoat
	case f.MemberID != nil:
		return VariantMember
	case f.BoatID != nil:
		return VariantBoat
	default:
		return VariantAll
	}
}

// predicate is one WHERE conjunct. Every '?' in sql binds the same value.
type predicate struct {
	sql   string
	value func(from, to string, f Filter) any
}

var (
	predFrom = predicate{sql: "day >= ?", value: func(from, _ string, _ Filter) any { return from }}
	predTo   = predicate{sql: "day <= ?", value: func(_, to string, _ Filter) any { return to }}
	predBoat = predicate{sql: "boat = ?", value: func(_, _ string, f Filter) any { return *f.BoatID }}

	predMember = predicate{
		sql:   "(" + strings.Join(eachEquals(memberColumns), " OR ") + ")",
		value: func(_, _ string, f Filter) any { return *f.MemberID },
	}
)

func eachEquals(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c + " = ?"
	}
	return out
}

func (v Variant) predicates() []predicate {
	preds := []predicate{predFrom, predTo}
	switch v {
	case VariantMember:
		preds = append(preds, predMember)
	case VariantBoat:
		preds = append(preds, predBoat)
	case VariantMemberBoat:
		preds = append(preds, predMember, predBoat)
	}
	return preds
}

func rangeSQL(table string, v Variant) string {
	preds := v.predicates()
	where := make([]string, len(preds))
	for i, p := range preds {
		where[i] = p.sql
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY day, time_out, id",
		strings.Join(Columns, ", "), table, strings.Join(where, " AND "))
}

// RangeArgs returns the bind arguments for the range statement of f's
// variant. It walks the same predicate list rangeSQL does, so placeholders
// and arguments cannot drift apart.
func RangeArgs(from, to string, f Filter) []any {
	var args []any
	for _, p := range f.Variant().predicates() {
		v := p.value(from, to, f)
		for range strings.Count(p.sql, "?") {
			args = append(args, v)
		}
	}
	return args
}

func insertSQL(table string) string {
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(Columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(Columns, ", "), marks)
}

// updateSQL sets every column but id; the id is the last argument.
func updateSQL(table string) string {
	sets := eachEquals(Columns[1:])
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
}

func replaceMemberSQL(table string) string {
	sets := make([]string, len(memberColumns))
	for i, c := range memberColumns {
		sets[i] = fmt.Sprintf("%s = CASE WHEN %s = ? THEN ? ELSE %s END", c, c, c)
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table,
		strings.Join(sets, ", "), strings.Join(eachEquals(memberColumns), " OR "))
}

// ReplaceMemberArgs returns the bind arguments of the ReplaceMember statement.
func ReplaceMemberArgs(oldID, newID int64) []any {
	args := make([]any, 0, 3*len(memberColumns))
	for range memberColumns {
		args = append(args, oldID, newID)
	}
	for range memberColumns {
		args = append(args, oldID)
	}
	return args
}

// Statements is the resource set cached per partition: every statement the
// outing repository issues against one year's table, prepared once.
type Statements struct {
	Partition

	Insert        *sql.Stmt
	Update        *sql.Stmt
	Delete        *sql.Stmt
	SelectByID    *sql.Stmt
	SelectDay     *sql.Stmt
	ReplaceMember *sql.Stmt
	ReplaceBoat   *sql.Stmt

	ranges [variantCount]*sql.Stmt

	closeOnce sync.Once
	closeErr  error
}

// Range returns the prepared range query for v.
func (s *Statements) Range(v Variant) *sql.Stmt {
	return s.ranges[v]
}

func (s *Statements) all() []*sql.Stmt {
	out := []*sql.Stmt{s.Insert, s.Update, s.Delete, s.SelectByID, s.SelectDay, s.ReplaceMember, s.ReplaceBoat}
	return append(out, s.ranges[:]...)
}

// Close closes every prepared statement. It is safe to call more than once;
// only the first call closes.
func (s *Statements) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		for _, st := range s.all() {
			if st == nil {
				continue
			}
			if err := st.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

// PrepareStatements prepares the full statement set for partition p.
// On failure every statement prepared so far is closed.
func PrepareStatements(ctx context.Context, db dbx.Preparer, p Partition) (*Statements, error) {
	s := &Statements{Partition: p}
	cols := strings.Join(Columns, ", ")

	targets := []struct {
		dst   **sql.Stmt
		query string
	}{
		{&s.Insert, insertSQL(p.Table)},
		{&s.Update, updateSQL(p.Table)},
		{&s.Delete, fmt.Sprintf("DELETE FROM %s WHERE id = ?", p.Table)},
		{&s.SelectByID, fmt.Sprintf("SELECT %s FROM %s WHERE id = ?", cols, p.Table)},
		{&s.SelectDay, fmt.Sprintf("SELECT %s FROM %s WHERE day = ? ORDER BY day, time_out, id", cols, p.Table)},
		{&s.ReplaceMember, replaceMemberSQL(p.Table)},
		{&s.ReplaceBoat, fmt.Sprintf("UPDATE %s SET boat = ? WHERE boat = ?", p.Table)},
	}
	for v := Variant(0); v < variantCount; v++ {
		targets = append(targets, struct {
			dst   **sql.Stmt
			query string
		}{&s.ranges[v], rangeSQL(p.Table, v)})
	}

	for _, t := range targets {
		st, err := db.PrepareContext(ctx, t.query)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("prepare %s statements: %w", p.Table, err)
		}
		*t.dst = st
	}
	return s, nil
}
