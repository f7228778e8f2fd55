package query

import (
	"context"
	"errors"

	"github.com/eaglebank/account-api/internal/repository"
	"github.com/eaglebank/account-api/shared/cqrs"
	"github.com/eaglebank/account-api/shared/metrics"
	"github.com/eaglebank/account-api/shared/models"
	"github.com/eaglebank/account-api/shared/token"
	"github.com/eaglebank/account-api/shared/utils"
)

const (
	FailureInvalidCredentials = "invalid email or password"
	FailureAccountInactive    = "account is deactivated"
)

// AccountQueryService answers existence, listing and credential checks. None of
// these mutate state.
type AccountQueryService struct {
	readRepo *repository.AccountReadRepository
	issuer   *token.Issuer
}

func NewAccountQueryService(readRepo *repository.AccountReadRepository, issuer *token.Issuer) *AccountQueryService {
	return &AccountQueryService{readRepo: readRepo, issuer: issuer}
}

func (s *AccountQueryService) AccountExists(ctx context.Context, q cqrs.AccountExistsQuery) (bool, error) {
	return s.readRepo.Exists(ctx, utils.NormalizeEmail(q.Email))
}

func (s *AccountQueryService) ListActiveAccounts(ctx context.Context, _ cqrs.ListActiveAccountsQuery) ([]models.AccountView, error) {
	return s.readRepo.ListActive(ctx)
}

// Authenticate reports rejected credentials through AuthResult.Failure and
// reserves the error return for store or signing failures.
func (s *AccountQueryService) Authenticate(ctx context.Context, q cqrs.AuthenticateQuery) (result *models.AuthResult, err error) {
	defer func() {
		metrics.RecordOutcome("authenticate", err == nil && result.OK())
	}()

	account, err := s.readRepo.FindCredentials(ctx, utils.NormalizeEmail(q.Email))
	if errors.Is(err, models.ErrAccountNotFound) {
		return &models.AuthResult{Failure: FailureInvalidCredentials}, nil
	}
	if err != nil {
		return nil, err
	}
	if !utils.CheckPassword(q.Password, account.PasswordHash) {
		return &models.AuthResult{Failure: FailureInvalidCredentials}, nil
	}
	if !account.Active {
		return &models.AuthResult{Failure: FailureAccountInactive}, nil
	}

	signed, err := s.issuer.Issue(account)
	if err != nil {
		return nil, err
	}
	return &models.AuthResult{
		Token:    signed,
		UserType: account.UserType,
		Name:     account.Name,
		LastName: account.LastName,
		Email:    account.Email,
	}, nil
}
