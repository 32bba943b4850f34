package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"dojoroll/internal/identity/models"
	id "dojoroll/pkg/domain"
	"dojoroll/pkg/platform/sentinel"
	"dojoroll/pkg/platform/tx"
)

// PostgresStore persists person records in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the context transaction when one is active, the pool otherwise.
func (s *PostgresStore) q(ctx context.Context) queryer {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const schema = `
CREATE TABLE IF NOT EXISTS persons (
	id            UUID PRIMARY KEY,
	credential_id UUID,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL,
	club_id       UUID,
	club_office   TEXT,
	email         TEXT,
	rank          INT NOT NULL DEFAULT 0,
	bio           TEXT,
	date_of_birth TEXT,
	media_ref     TEXT,
	version       BIGINT NOT NULL DEFAULT 1
)`

// EnsureSchema creates the persons table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("ensure persons schema: %w", err)
	}
	return nil
}

const personColumns = "id, credential_id, name, role, club_id, club_office, email, rank, bio, date_of_birth, media_ref, version"

func (s *PostgresStore) Create(ctx context.Context, person *models.Person) (id.PersonID, error) {
	stored := person.Clone()
	if stored.ID.IsNil() {
		stored.ID = id.NewPersonID()
	}
	stored.Normalize()
	stored.Version = 1

	_, err := s.q(ctx).ExecContext(ctx,
		`INSERT INTO persons (`+personColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		stored.ID.String(),
		credentialArg(stored.Credential),
		stored.Name,
		stored.Role.String(),
		clubArg(stored.Club),
		nullString(stored.ClubOffice),
		nullString(stored.Email),
		stored.Rank,
		nullString(stored.Bio),
		nullString(stored.DateOfBirth),
		nullString(stored.MediaRef),
		stored.Version,
	)
	if err != nil {
		return id.PersonID{}, mapPgErr(err)
	}
	return stored.ID, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, personID id.PersonID) (*models.Person, error) {
	row := s.q(ctx).QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM persons WHERE id = $1`, personID.String())
	person, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, mapPgErr(err)
	}
	return person, nil
}

func (s *PostgresStore) Update(ctx context.Context, personID id.PersonID, patch models.Patch, expectedVersion int64) (*models.Person, error) {
	// The patch is applied to a loaded copy rather than translated into a
	// dynamic SET list. The read and the write share one transaction, and the
	// version guard in the WHERE clause keeps the read-modify-write
	// race-safe against writers outside it.
	var updated *models.Person
	err := tx.Run(ctx, s.db, func(ctx context.Context) error {
		current, err := s.FindByID(ctx, personID)
		if err != nil {
			return err
		}
		if current.Version != expectedVersion {
			return sentinel.ErrConflict
		}
		updated = current.Clone()
		patch.Apply(updated)
		updated.Version = expectedVersion + 1

		res, err := s.q(ctx).ExecContext(ctx,
			`UPDATE persons
			 SET credential_id = $1, name = $2, role = $3, club_id = $4, club_office = $5,
			     email = $6, rank = $7, bio = $8, date_of_birth = $9, media_ref = $10, version = $11
			 WHERE id = $12 AND version = $13`,
			credentialArg(updated.Credential),
			updated.Name,
			updated.Role.String(),
			clubArg(updated.Club),
			nullString(updated.ClubOffice),
			nullString(updated.Email),
			updated.Rank,
			nullString(updated.Bio),
			nullString(updated.DateOfBirth),
			nullString(updated.MediaRef),
			updated.Version,
			personID.String(),
			expectedVersion,
		)
		if err != nil {
			return mapPgErr(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return mapPgErr(err)
		}
		if affected == 0 {
			// Either the row vanished or another writer got there first.
			if _, err := s.FindByID(ctx, personID); errors.Is(err, sentinel.ErrNotFound) {
				return sentinel.ErrNotFound
			}
			return sentinel.ErrConflict
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the person. Deleting an absent person succeeds.
func (s *PostgresStore) Delete(ctx context.Context, personID id.PersonID) error {
	if _, err := s.q(ctx).ExecContext(ctx, `DELETE FROM persons WHERE id = $1`, personID.String()); err != nil {
		return mapPgErr(err)
	}
	return nil
}

func scanPerson(row *sql.Row) (*models.Person, error) {
	var (
		p                  models.Person
		idStr, roleStr     string
		credID, clubID     sql.NullString
		office, email, bio sql.NullString
		dob, mediaRef      sql.NullString
	)
	err := row.Scan(&idStr, &credID, &p.Name, &roleStr, &clubID, &office, &email,
		&p.Rank, &bio, &dob, &mediaRef, &p.Version)
	if err != nil {
		return nil, err
	}

	personID, err := id.ParsePersonID(idStr)
	if err != nil {
		return nil, err
	}
	p.ID = personID
	p.Role = id.Role(roleStr)

	if credID.Valid {
		parsed, err := id.ParseCredentialID(credID.String)
		if err != nil {
			return nil, err
		}
		p.Credential = &parsed
	}
	if clubID.Valid {
		parsed, err := id.ParseClubID(clubID.String)
		if err != nil {
			return nil, err
		}
		p.Club = &parsed
	}
	p.ClubOffice = fromNull(office)
	p.Email = fromNull(email)
	p.Bio = fromNull(bio)
	p.DateOfBirth = fromNull(dob)
	p.MediaRef = fromNull(mediaRef)
	return &p, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

func fromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func credentialArg(v *id.CredentialID) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func clubArg(v *id.ClubID) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: v.String(), Valid: true}
}

func mapPgErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// Class 23: integrity constraint violations (duplicate keys).
		if len(pqErr.Code) >= 2 && pqErr.Code[:2] == "23" {
			return fmt.Errorf("%w: %w", sentinel.ErrConflict, err)
		}
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	// Anything non-SQL at this point is connectivity.
	return fmt.Errorf("%w: %w", sentinel.ErrUnavailable, err)
}
