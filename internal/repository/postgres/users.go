package postgres

import (
	"alcyxob/fitness-admin/internal/domain"
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileRepository implements repository.ProfileRepository.
type ProfileRepository struct{ pool *pgxpool.Pool }

func scanProfile(row pgx.CollectableRow) (domain.Profile, error) {
	var p domain.Profile
	var id string
	if err := row.Scan(&id, &p.Role, &p.IsBanned, &p.CreatedAt); err != nil {
		return p, err
	}
	var err error
	p.ID, err = parseID(id)
	return p, err
}

func (r *ProfileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	if profile.ID == primitive.NilObjectID {
		return errors.New("profile ID is required")
	}
	if !profile.Role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	profile.CreatedAt = now()
	_, err := r.pool.Exec(ctx, `INSERT INTO profiles (id, role, is_banned, created_at) VALUES ($1,$2,$3,$4)`,
		profile.ID.Hex(), string(profile.Role), profile.IsBanned, profile.CreatedAt)
	return mapErr(err)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, role, is_banned, created_at FROM profiles WHERE id=$1`, id.Hex())
	if err != nil {
		return nil, err
	}
	p, err := pgx.CollectExactlyOneRow(rows, scanProfile)
	if err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}

func (r *ProfileRepository) List(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, role, is_banned, created_at FROM profiles ORDER BY id ASC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanProfile)
}

func (r *ProfileRepository) SetRole(ctx context.Context, id primitive.ObjectID, role domain.Role) error {
	if !role.Valid() {
		return errors.New("profile role must be admin or user")
	}
	return execOne(ctx, r.pool, `UPDATE profiles SET role=$2 WHERE id=$1`, id.Hex(), string(role))
}

func (r *ProfileRepository) SetBanned(ctx context.Context, id primitive.ObjectID, banned bool) error {
	return execOne(ctx, r.pool, `UPDATE profiles SET is_banned=$2 WHERE id=$1`, id.Hex(), banned)
}

func (r *ProfileRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.pool, "profiles")
}

// AccountRepository implements repository.AccountRepository.
type AccountRepository struct{ pool *pgxpool.Pool }

func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) (primitive.ObjectID, error) {
	if account.Email == "" || account.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("account email and password hash are required")
	}
	account.ID = primitive.NewObjectID()
	account.Email = strings.ToLower(account.Email)
	account.CreatedAt = now()
	_, err := r.pool.Exec(ctx, `INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1,$2,$3,$4)`,
		account.ID.Hex(), account.Email, account.PasswordHash, account.CreatedAt)
	if err != nil {
		return primitive.NilObjectID, mapErr(err)
	}
	return account.ID, nil
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var a domain.Account
	var id string
	err := r.pool.QueryRow(ctx, `SELECT id, email, password_hash, created_at FROM accounts WHERE email=$1`,
		strings.ToLower(email)).Scan(&id, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if a.ID, err = parseID(id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return execOne(ctx, r.pool, `DELETE FROM accounts WHERE id=$1`, id.Hex())
}
