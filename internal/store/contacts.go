package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/roach88/contactbook/internal/contact"
)

// ListAll returns every stored contact ordered by Id ascending, which is
// insertion order because Ids come from AUTOINCREMENT.
//
// Returns an empty slice (not nil) when the table is empty.
func (s *Store) ListAll(ctx context.Context) ([]contact.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT Id, ContactName, ContactNumber
		FROM Contact
		ORDER BY Id ASC
	`)
	if err != nil {
		return nil, readError("list", err)
	}
	defer rows.Close()

	contacts := []contact.Contact{}
	for rows.Next() {
		var c contact.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.PhoneNumber); err != nil {
			return nil, readError("list: scan", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, readError("list: iterate", err)
	}

	return contacts, nil
}

// Get retrieves a single contact by Id.
// Returns ErrNotFound if no row has that Id.
func (s *Store) Get(ctx context.Context, id int64) (contact.Contact, error) {
	var c contact.Contact
	err := s.db.QueryRowContext(ctx, `
		SELECT Id, ContactName, ContactNumber
		FROM Contact
		WHERE Id = ?
	`, id).Scan(&c.ID, &c.Name, &c.PhoneNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return contact.Contact{}, ErrNotFound
	}
	if err != nil {
		return contact.Contact{}, readError("get", err)
	}
	return c, nil
}

// Add inserts c and returns it with the Id the database assigned.
// Any Id already set on c is ignored. Text is stored exactly as given.
func (s *Store) Add(ctx context.Context, c contact.Contact) (contact.Contact, error) {
	res, err := s.exec(ctx, "add", `
		INSERT INTO Contact (ContactName, ContactNumber)
		VALUES (?, ?)
	`, c.Name, c.PhoneNumber)
	if err != nil {
		return contact.Contact{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return contact.Contact{}, writeError("add: last insert id", err)
	}
	c.ID = id

	s.logger.Debug("contact added", "id", id)
	return c, nil
}

// Update overwrites the row with c.ID and returns the number of rows affected.
// An Id that does not exist affects zero rows and is not an error.
// Text is stored exactly as given.
func (s *Store) Update(ctx context.Context, c contact.Contact) (int64, error) {
	res, err := s.exec(ctx, "update", `
		UPDATE Contact
		SET ContactName = ?, ContactNumber = ?
		WHERE Id = ?
	`, c.Name, c.PhoneNumber, c.ID)
	if err != nil {
		return 0, err
	}
	return rowsAffected("update", res)
}

// Delete removes the row with c.ID and returns the number of rows affected.
// Deleting an absent Id affects zero rows, so repeated deletes are harmless.
func (s *Store) Delete(ctx context.Context, c contact.Contact) (int64, error) {
	res, err := s.exec(ctx, "delete", `
		DELETE FROM Contact
		WHERE Id = ?
	`, c.ID)
	if err != nil {
		return 0, err
	}
	return rowsAffected("delete", res)
}

func rowsAffected(op string, res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, writeError(op+": rows affected", err)
	}
	return n, nil
}
