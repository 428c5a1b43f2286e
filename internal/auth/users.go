// internal/auth/users.go
//
// Accounts for the Lights Out server.
// Responsibilities:
//   - Signup/login with bcrypt-hashed passwords.
//   - User lookup by id or username (case-insensitive).
//   - Per-user stats: games played, wins, best (lowest) winning move count.

package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameTaken      = errors.New("username taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	BestMoves    int       `json:"bestMoves"`
}

// Service bundles the DB handle with token and cookie settings.
type Service struct {
	db         *sql.DB
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// Options configures a Service.
type Options struct {
	Secret      string
	ExpiresDays int
	CookieName  string
	Production  bool
}

// NewService constructs a Service. Zero options fall back to dev defaults.
func NewService(db *sql.DB, o Options) *Service {
	if o.Secret == "" {
		o.Secret = "dev_secret_change_me"
	}
	if o.ExpiresDays <= 0 {
		o.ExpiresDays = 14
	}
	if o.CookieName == "" {
		o.CookieName = "lightsout_token"
	}
	return &Service{
		db:         db,
		secret:     []byte(o.Secret),
		ttl:        time.Duration(o.ExpiresDays) * 24 * time.Hour,
		cookieName: o.CookieName,
		secure:     o.Production,
	}
}

// Signup validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Service) Signup(ctx context.Context, username, pw string) (*User, error) {
	username = normalizeUsername(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, ErrUsernameTaken
	}
	h, err := hashPassword(pw)
	if err != nil {
		return nil, err
	}
	u := &User{
		ID:           genID(),
		Username:     username,
		PasswordHash: h,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Login checks credentials; both unknown users and bad passwords give ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, pw string) (*User, error) {
	u, err := s.FindByUsername(ctx, normalizeUsername(username))
	if err != nil || !checkPassword(u.PasswordHash, pw) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

const userCols = `id, username, password_hash, created_at, games_played, wins, best_moves`

func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE lower(username)=lower(?)`, username)
	return scanUser(row)
}

func (s *Service) FindByID(ctx context.Context, id string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.BestMoves); err != nil {
		return nil, err
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

// ClaimAnonGames transfers anonymous games to a user account after auth and
// counts them towards the user's games played.
func (s *Service) ClaimAnonGames(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		if _, err := tx.ExecContext(ctx, `UPDATE users SET games_played=games_played+? WHERE id=?`, n, userID); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// RecordStart counts a newly started game for userID.
func (s *Service) RecordStart(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE users SET games_played=games_played+1 WHERE id=?`, userID)
	return err
}

// RecordWin bumps wins and keeps the lowest winning move count (within tx).
func RecordWin(tx *sql.Tx, userID string, moves int) error {
	var wins, best int
	row := tx.QueryRow(`SELECT wins, best_moves FROM users WHERE id=?`, userID)
	if err := row.Scan(&wins, &best); err != nil {
		return err
	}
	wins++
	if best == 0 || moves < best {
		best = moves
	}
	_, err := tx.Exec(`UPDATE users SET wins=?, best_moves=? WHERE id=?`, wins, best, userID)
	return err
}

func normalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3–24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8–100 chars")
	}
	return nil
}

func hashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost) // cost=10
	return string(b), err
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
