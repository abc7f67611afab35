package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/quietstream/quietstream/stream"
)

const recordColumns = "id, name, link, categories, kind"

type scanner interface {
	Scan(dest ...any) error
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanRecord(row scanner) (stream.Record, error) {
	var (
		r    stream.Record
		kind sql.NullString
		cats sql.NullString
	)
	if err := row.Scan(&r.ID, &r.Name, &r.Link, &cats, &kind); err != nil {
		return stream.Record{}, err
	}
	r.Categories = cats.String
	r.Kind = stream.DecodeKind(kind.String)
	return r, nil
}

// Create inserts r and returns it with the assigned id. r.ID is ignored.
func (s *Store) Create(ctx context.Context, r stream.Record) (stream.Record, error) {
	r = r.Normalize()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		id, err := insert(ctx, tx, r)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	})
	if err != nil {
		return stream.Record{}, storageErr("create", err)
	}
	return r, nil
}

// InsertUnique inserts r unless a record with the same trimmed name or link exists,
// in which case it returns ErrDuplicate. The check and the insert share one transaction.
func (s *Store) InsertUnique(ctx context.Context, r stream.Record) (stream.Record, error) {
	r = r.Normalize()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := findDuplicate(ctx, tx, r.Name, r.Link); err == nil {
			return ErrDuplicate
		} else if !errors.Is(err, sql.ErrNoRows) {
			return err
		}

		id, err := insert(ctx, tx, r)
		if err != nil {
			return err
		}
		r.ID = id
		return nil
	})
	switch {
	case errors.Is(err, ErrDuplicate):
		return stream.Record{}, ErrDuplicate
	case err != nil:
		return stream.Record{}, storageErr("insert", err)
	}
	return r, nil
}

func insert(ctx context.Context, tx *sql.Tx, r stream.Record) (int64, error) {
	res, err := tx.ExecContext(
		ctx,
		`INSERT INTO Stream (name, link, categories, kind) VALUES (?, ?, ?, ?)`,
		r.Name, r.Link, r.Categories, r.Kind.String(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Get returns the record with the given id, or nil when there is none.
func (s *Store) Get(ctx context.Context, id int64) (*stream.Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM Stream WHERE id = ?`, id)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("get", err)
	}
	return &r, nil
}

// List returns every record ordered by id.
func (s *Store) List(ctx context.Context) ([]stream.Record, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+recordColumns+` FROM Stream ORDER BY id`)
	if err != nil {
		return nil, storageErr("list", err)
	}
	defer rows.Close()

	records := make([]stream.Record, 0)
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("scan", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list", err)
	}
	return records, nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM Stream`).Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// FindDuplicate returns a record whose trimmed name equals name or whose trimmed link equals link.
func (s *Store) FindDuplicate(ctx context.Context, name, link string) (*stream.Record, error) {
	found, err := findDuplicate(ctx, s.db, name, link)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find duplicate", err)
	}
	return &found, nil
}

func findDuplicate(ctx context.Context, q queryer, name, link string) (stream.Record, error) {
	row := q.QueryRowContext(
		ctx,
		`SELECT `+recordColumns+` FROM Stream WHERE trim(name) = ? OR trim(link) = ? ORDER BY id LIMIT 1`,
		strings.TrimSpace(name), strings.TrimSpace(link),
	)
	return scanRecord(row)
}

// Update overwrites the stored fields of r.ID.
func (s *Store) Update(ctx context.Context, r stream.Record) error {
	r = r.Normalize()
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(
			ctx,
			`UPDATE Stream SET name = ?, link = ?, categories = ?, kind = ? WHERE id = ?`,
			r.Name, r.Link, r.Categories, r.Kind.String(), r.ID,
		)
		if err != nil {
			return err
		}
		return expectAffected(res)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageErr("update", err)
	}
	return nil
}

// Delete removes the record with the given id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM Stream WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return expectAffected(res)
	})
	if errors.Is(err, ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return storageErr("delete", err)
	}
	return nil
}

// DeleteMany removes every listed id in a single transaction and returns how many rows went away.
// Ids that do not exist are ignored.
func (s *Store) DeleteMany(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	var removed int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		removed = 0
		stmt, err := tx.PrepareContext(ctx, `DELETE FROM Stream WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, id := range ids {
			res, err := stmt.ExecContext(ctx, id)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			removed += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, storageErr("delete many", err)
	}
	return removed, nil
}

// Seed inserts records only when the table is empty. It reports how many were added.
func (s *Store) Seed(ctx context.Context, records []stream.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	var added int
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		added = 0
		var n int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM Stream`).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		for _, r := range records {
			if err := r.Validate(); err != nil {
				continue
			}
			if _, err := insert(ctx, tx, r.Normalize()); err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return 0, storageErr("seed", err)
	}
	return added, nil
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
