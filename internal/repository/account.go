package repository

import (
	"context"
	"database/sql"
	"errors"

	"noteboard/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a query matches no row.
var ErrNotFound = errors.New("record not found")

type AccountRepository interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	FindByEmailExcluding(ctx context.Context, email string, excludeID int64) (*models.User, error)
	FindByIDAndPassword(ctx context.Context, id int64, password string) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateMFA(ctx context.Context, id int64, enabled bool, secret *string) error
	DeleteByEmail(ctx context.Context, email string) error
	ExportTree(ctx context.Context, userID int64) (*models.Export, error)
	OwnsImage(ctx context.Context, userID int64, key string) (bool, error)
}

type accountRepository struct {
	db  *sqlx.DB
	log *logrus.Logger
}

func NewAccountRepository(db *sqlx.DB, log *logrus.Logger) AccountRepository {
	return &accountRepository{db: db, log: log}
}

const userColumns = `id, name, email, password, secret, mfa, role, terms, sort_boards_by, sort_notes_by, created_at`

func (r *accountRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *accountRepository) FindByEmailExcluding(ctx context.Context, email string, excludeID int64) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND id <> $2`
	if err := r.db.GetContext(ctx, &user, query, email, excludeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByIDAndPassword matches the raw value against the password column.
// The column holds a digest, so the caller's input is compared as-is.
func (r *accountRepository) FindByIDAndPassword(ctx context.Context, id int64, password string) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND password = $2`
	if err := r.db.GetContext(ctx, &user, query, id, password); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *accountRepository) UpdateProfile(ctx context.Context, id int64, name, email string) error {
	query := `UPDATE users SET name = $2, email = $3 WHERE id = $1`
	return r.exec(ctx, query, id, name, email)
}

func (r *accountRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `UPDATE users SET password = $2 WHERE id = $1`
	return r.exec(ctx, query, id, passwordHash)
}

func (r *accountRepository) UpdateMFA(ctx context.Context, id int64, enabled bool, secret *string) error {
	query := `UPDATE users SET mfa = $2, secret = $3 WHERE id = $1`
	return r.exec(ctx, query, id, enabled, secret)
}

// DeleteByEmail removes the user row; boards and notes go with it through
// the ON DELETE CASCADE constraints.
func (r *accountRepository) DeleteByEmail(ctx context.Context, email string) error {
	query := `DELETE FROM users WHERE email = $1`
	return r.exec(ctx, query, email)
}

func (r *accountRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *accountRepository) ExportTree(ctx context.Context, userID int64) (*models.Export, error) {
	var owner struct {
		Name  *string `db:"name"`
		Email string  `db:"email"`
	}
	if err := r.db.GetContext(ctx, &owner, `SELECT name, email FROM users WHERE id = $1`, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var boards []models.Board
	query := `SELECT id, user_id, name, image_url, created_at FROM boards WHERE user_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &boards, query, userID); err != nil {
		return nil, err
	}

	var notes []models.Note
	query = `SELECT n.id, n.board_id, n.title, n.content, n.image_url, n.created_at
		FROM notes n JOIN boards b ON b.id = n.board_id
		WHERE b.user_id = $1 ORDER BY n.id`
	if err := r.db.SelectContext(ctx, &notes, query, userID); err != nil {
		return nil, err
	}

	notesByBoard := make(map[int64][]models.ExportNote, len(boards))
	for _, n := range notes {
		notesByBoard[n.BoardID] = append(notesByBoard[n.BoardID], models.ExportNote{
			ID:       n.ID,
			Title:    n.Title,
			Content:  n.Content,
			ImageURL: n.ImageURL,
		})
	}

	export := &models.Export{
		Name:   owner.Name,
		Email:  owner.Email,
		Boards: make([]models.ExportBoard, 0, len(boards)),
	}
	for _, b := range boards {
		exportNotes := notesByBoard[b.ID]
		if exportNotes == nil {
			exportNotes = []models.ExportNote{}
		}
		export.Boards = append(export.Boards, models.ExportBoard{
			ID:       b.ID,
			Name:     b.Name,
			ImageURL: b.ImageURL,
			Notes:    exportNotes,
		})
	}
	return export, nil
}

func (r *accountRepository) OwnsImage(ctx context.Context, userID int64, key string) (bool, error) {
	var owns bool
	query := `SELECT EXISTS (
		SELECT 1 FROM boards b
		LEFT JOIN notes n ON n.board_id = b.id
		WHERE b.user_id = $1 AND (b.image_url = $2 OR n.image_url = $2)
	)`
	if err := r.db.GetContext(ctx, &owns, query, userID, key); err != nil {
		return false, err
	}
	return owns, nil
}
