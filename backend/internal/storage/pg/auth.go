package pg

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/lib/pq"
	"github.com/samber/oops"

	"github.com/MoniqueMiko/watch-auth-microservice/shared/domain"
	internal_errors "github.com/MoniqueMiko/watch-auth-microservice/shared/errors"
	sharedpg "github.com/MoniqueMiko/watch-auth-microservice/shared/storage/pg"
)

// =========================================================================
// Public Methods (satisfy the service.AuthStorage interface)
// =========================================================================

// SaveUser inserts a new identity and returns it with the generated id.
// A taken email yields internal_errors.ErrDuplicateEmail.
func (s *Storage) SaveUser(ctx context.Context, user domain.User) (domain.User, error) {
	var saved domain.User
	err := sharedpg.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		var err error
		saved, err = s.saveUser(ctx, tx, user)
		return err
	})
	return saved, err
}

// UserByEmail looks an identity up by exact email. Absent is nil, nil.
func (s *Storage) UserByEmail(ctx context.Context, email domain.Email) (*domain.User, error) {
	return s.userByEmail(ctx, s.db, email)
}

// =========================================================================
// Internal Methods (Core Database Logic)
// These methods accept a Querier and are transaction-agnostic.
// =========================================================================

func (s *Storage) saveUser(ctx context.Context, q sharedpg.Querier, user domain.User) (domain.User, error) {
	err := q.QueryRowContext(ctx,
		"INSERT INTO identities(email, full_name, password_hash) VALUES($1, $2, $3) RETURNING id",
		user.Email, user.FullName, user.PassHash,
	).Scan(&user.Id)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, internal_errors.ErrDuplicateEmail
		}
		return domain.User{}, oops.Code("DB_INSERT_FAILED").With("table", "identities").Wrap(err)
	}
	return user, nil
}

func (s *Storage) userByEmail(ctx context.Context, q sharedpg.Querier, email domain.Email) (*domain.User, error) {
	var user domain.User
	err := q.QueryRowContext(ctx,
		"SELECT id, email, full_name, password_hash FROM identities WHERE email = $1",
		email,
	).Scan(&user.Id, &user.Email, &user.FullName, &user.PassHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, oops.Code("DB_QUERY_FAILED").With("table", "identities").Wrap(err)
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgerrcode.UniqueViolation
}
