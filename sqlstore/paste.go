package sqlstore

import (
	"context"
	"database/sql"

	"katb.in/katbin"
)

type dbPaste struct {
	ID        string        `db:"id"`
	IsURL     bool          `db:"is_url"`
	Content   string        `db:"content"`
	BelongsTo sql.NullInt64 `db:"belongs_to"`
}

func (d *dbPaste) paste() *katbin.Paste {
	p := &katbin.Paste{
		ID:      katbin.PasteID(d.ID),
		Content: d.Content,
		IsURL:   d.IsURL,
	}
	if d.BelongsTo.Valid {
		owner := katbin.UserID(d.BelongsTo.Int64)
		p.Owner = &owner
	}
	return p
}

func (p *Provider) wrapInsertError(err error) error {
	if err != nil && p.dialect.isUniquenessError(err) {
		return katbin.ErrUniqueViolation
	}
	return err
}

func (p *Provider) InsertPaste(ctx context.Context, paste *katbin.Paste) error {
	var owner sql.NullInt64
	if paste.Owner != nil {
		owner = sql.NullInt64{Int64: int64(*paste.Owner), Valid: true}
	}

	_, err := p.DB.ExecContext(ctx, p.DB.Rebind(
		`INSERT INTO pastes(id, is_url, content, belongs_to) VALUES(?, ?, ?, ?)`),
		string(paste.ID), paste.IsURL, paste.Content, owner)
	return p.wrapInsertError(err)
}

func (p *Provider) GetPaste(ctx context.Context, id katbin.PasteID) (*katbin.Paste, error) {
	var d dbPaste
	err := p.DB.GetContext(ctx, &d, p.DB.Rebind(
		`SELECT id, is_url, content, belongs_to FROM pastes WHERE id = ? LIMIT 1`), string(id))
	if err == sql.ErrNoRows {
		return nil, katbin.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return d.paste(), nil
}

func (p *Provider) UpdatePaste(ctx context.Context, paste *katbin.Paste) error {
	res, err := p.DB.ExecContext(ctx, p.DB.Rebind(
		`UPDATE pastes SET content = ?, is_url = ? WHERE id = ?`),
		paste.Content, paste.IsURL, string(paste.ID))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return katbin.ErrNotFound
	}
	return nil
}

func (p *Provider) FindPastesByOwner(ctx context.Context, owner katbin.UserID) ([]*katbin.Paste, error) {
	var rows []dbPaste
	err := p.DB.SelectContext(ctx, &rows, p.DB.Rebind(
		`SELECT id, is_url, content, belongs_to FROM pastes WHERE belongs_to = ? ORDER BY id`), int64(owner))
	if err != nil {
		return nil, err
	}

	pastes := make([]*katbin.Paste, len(rows))
	for i := range rows {
		pastes[i] = rows[i].paste()
	}
	return pastes, nil
}
