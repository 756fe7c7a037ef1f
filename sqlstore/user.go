package sqlstore

import (
	"context"
	"database/sql"
	"time"

	"katb.in/katbin"
)

type dbUser struct {
	ID             int64     `db:"id"`
	Email          string    `db:"email"`
	HashedPassword string    `db:"hashed_password"`
	InsertedAt     time.Time `db:"inserted_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

func (d *dbUser) user() *katbin.User {
	return &katbin.User{
		ID:             katbin.UserID(d.ID),
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
		CreatedAt:      d.InsertedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
}

const userColumns = `id, email, hashed_password, inserted_at, updated_at`

func (p *Provider) getUserWithQuery(ctx context.Context, query string, args ...interface{}) (*katbin.User, error) {
	var d dbUser
	err := p.DB.GetContext(ctx, &d, p.DB.Rebind(`SELECT `+userColumns+` FROM users WHERE `+query+` LIMIT 1`), args...)
	if err == sql.ErrNoRows {
		return nil, katbin.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.user(), nil
}

func (p *Provider) GetUserByID(ctx context.Context, id katbin.UserID) (*katbin.User, error) {
	return p.getUserWithQuery(ctx, "id = ?", int64(id))
}

// FindUserByEmail relies on the column's case-insensitive collation.
func (p *Provider) FindUserByEmail(ctx context.Context, email string) (*katbin.User, error) {
	return p.getUserWithQuery(ctx, "email = ?", email)
}

func (p *Provider) InsertUser(ctx context.Context, u *katbin.User) error {
	var id int64
	err := p.DB.QueryRowxContext(ctx, p.DB.Rebind(
		`INSERT INTO users(email, hashed_password, inserted_at, updated_at) VALUES(?, ?, ?, ?) RETURNING id`),
		u.Email, u.HashedPassword, u.CreatedAt, u.UpdatedAt).Scan(&id)
	if err != nil {
		return p.wrapInsertError(err)
	}
	u.ID = katbin.UserID(id)
	return nil
}
