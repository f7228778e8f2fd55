package query

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/eaglebank/account-api/internal/repository"
	"github.com/eaglebank/account-api/shared/cqrs"
	"github.com/eaglebank/account-api/shared/token"
	"github.com/eaglebank/account-api/shared/utils"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

var columnNames = []string{"id", "name", "last_name", "email", "password_hash", "address", "user_type", "active", "created_at", "updated_at"}

func newTestService(t *testing.T) (*AccountQueryService, sqlmock.Sqlmock, *token.Issuer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	issuer, err := token.NewIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	readRepo := repository.NewAccountReadRepository(db, rdb, zerolog.Nop())
	return NewAccountQueryService(readRepo, issuer), mock, issuer
}

func credentialRow(t *testing.T, password string, active bool) *sqlmock.Rows {
	t.Helper()
	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	now := time.Now().UTC()
	return sqlmock.NewRows(columnNames).AddRow(
		"acc-0123456789", "Ana", "Ruiz", "a@x.com", hash, nil, "admin", active, now, now,
	)
}

func TestAccountExists(t *testing.T) {
	svc, mock, _ := newTestService(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("a@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := svc.AccountExists(context.Background(), cqrs.AccountExistsQuery{Email: "a@x.com"})
	if err != nil || !exists {
		t.Fatalf("expected (true, nil), got (%v, %v)", exists, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Error(err)
	}
}

func TestListActiveAccounts(t *testing.T) {
	svc, mock, _ := newTestService(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE active")).
		WillReturnRows(sqlmock.NewRows(columnNames).
			AddRow("acc-0000000001", "Ana", "Ruiz", "a@x.com", "h", nil, "standard", true, now, now))

	views, err := svc.ListActiveAccounts(context.Background(), cqrs.ListActiveAccountsQuery{})
	if err != nil {
		t.Fatalf("ListActiveAccounts: %v", err)
	}
	if len(views) != 1 || views[0].Email != "a@x.com" {
		t.Errorf("unexpected views: %+v", views)
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		password    string
		setup       func(t *testing.T, m sqlmock.Sqlmock)
		wantErr     bool
		wantFailure string
	}{
		{
			name:     "success",
			password: "p1",
			setup: func(t *testing.T, m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("a@x.com").WillReturnRows(credentialRow(t, "p1", true))
			},
		},
		{
			name:     "wrong password",
			password: "nope",
			setup: func(t *testing.T, m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("a@x.com").WillReturnRows(credentialRow(t, "p1", true))
			},
			wantFailure: FailureInvalidCredentials,
		},
		{
			name:     "unknown email",
			password: "p1",
			setup: func(t *testing.T, m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("a@x.com").WillReturnError(sql.ErrNoRows)
			},
			wantFailure: FailureInvalidCredentials,
		},
		{
			name:     "deactivated account",
			password: "p1",
			setup: func(t *testing.T, m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("a@x.com").WillReturnRows(credentialRow(t, "p1", false))
			},
			wantFailure: FailureAccountInactive,
		},
		{
			name:     "store failure",
			password: "p1",
			setup: func(t *testing.T, m sqlmock.Sqlmock) {
				m.ExpectQuery(regexp.QuoteMeta("FROM accounts WHERE email = $1")).
					WithArgs("a@x.com").WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mock, issuer := newTestService(t)
			tt.setup(t, mock)

			result, err := svc.Authenticate(context.Background(), cqrs.AuthenticateQuery{Email: "a@x.com", Password: tt.password})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Error(err)
			}
			if tt.wantErr {
				return
			}
			if result.Failure != tt.wantFailure {
				t.Fatalf("expected failure %q, got %q", tt.wantFailure, result.Failure)
			}
			if !result.OK() {
				if result.Token != "" {
					t.Error("rejected credentials must not carry a token")
				}
				return
			}

			if result.UserType != "admin" || result.Name != "Ana" || result.LastName != "Ruiz" || result.Email != "a@x.com" {
				t.Errorf("unexpected profile: %+v", result)
			}
			claims, err := issuer.Parse(result.Token)
			if err != nil {
				t.Fatalf("issued token does not parse: %v", err)
			}
			if claims.Email != "a@x.com" || claims.AccountID != "acc-0123456789" {
				t.Errorf("unexpected claims: %+v", claims)
			}
		})
	}
}
