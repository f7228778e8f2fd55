package command

import (
	"context"
	"fmt"
	"time"

	"github.com/eaglebank/account-api/internal/repository"
	"github.com/eaglebank/account-api/shared/cqrs"
	"github.com/eaglebank/account-api/shared/events"
	"github.com/eaglebank/account-api/shared/metrics"
	"github.com/eaglebank/account-api/shared/middleware"
	"github.com/eaglebank/account-api/shared/models"
	"github.com/eaglebank/account-api/shared/utils"
	"github.com/rs/zerolog"
)

// AccountCommandService writes account state to PostgreSQL and keeps the Redis
// read model up to date.
type AccountCommandService struct {
	writeRepo *repository.AccountWriteRepository
	readRepo  *repository.AccountReadRepository
	publisher *events.Publisher
	log       zerolog.Logger
}

func NewAccountCommandService(
	writeRepo *repository.AccountWriteRepository,
	readRepo *repository.AccountReadRepository,
	publisher *events.Publisher,
	log zerolog.Logger,
) *AccountCommandService {
	return &AccountCommandService{
		writeRepo: writeRepo,
		readRepo:  readRepo,
		publisher: publisher,
		log:       log.With().Str("component", "account_commands").Logger(),
	}
}

// CreateAccount validates the account itself, so callers that skip request
// validation still cannot store a malformed account.
func (s *AccountCommandService) CreateAccount(ctx context.Context, cmd cqrs.CreateAccountCommand) (view *models.AccountView, err error) {
	defer func() { metrics.RecordOperation("create", err) }()

	schema := models.AccountSchema{
		Name:     cmd.Name,
		LastName: cmd.LastName,
		Email:    utils.NormalizeEmail(cmd.Email),
		Password: cmd.Password,
		Address:  cmd.Address,
		UserType: cmd.UserType,
	}
	if validationErrors := middleware.ValidateRequest(schema); validationErrors != nil {
		return nil, validationErrors
	}

	passwordHash, err := utils.HashPassword(schema.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := time.Now().UTC()
	account := &models.Account{
		ID:           utils.NewAccountID(),
		Name:         schema.Name,
		LastName:     schema.LastName,
		Email:        schema.Email,
		PasswordHash: passwordHash,
		Address:      schema.Address,
		UserType:     schema.UserType,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.writeRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	view = account.View()
	s.readRepo.CacheAccountView(ctx, view)
	s.publish(ctx, events.AccountCreated, events.AccountCreatedEvent{
		AccountID: account.ID,
		Email:     account.Email,
		UserType:  account.UserType,
	})
	return view, nil
}

// UpdateAccount applies the non-nil fields to an active account.
func (s *AccountCommandService) UpdateAccount(ctx context.Context, cmd cqrs.UpdateAccountCommand) (view *models.AccountView, err error) {
	defer func() { metrics.RecordOperation("update", err) }()

	account, err := s.writeRepo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return nil, err
	}
	if !account.Active {
		return nil, models.ErrAccountNotFound
	}

	f := cmd.Fields
	if f.Name != nil {
		account.Name = *f.Name
	}
	if f.LastName != nil {
		account.LastName = *f.LastName
	}
	if f.Email != nil {
		account.Email = utils.NormalizeEmail(*f.Email)
	}
	if f.Address != nil {
		account.Address = *f.Address
	}
	if f.UserType != nil {
		account.UserType = *f.UserType
	}
	if f.Password != nil {
		passwordHash, err := utils.HashPassword(*f.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		account.PasswordHash = passwordHash
	}
	account.UpdatedAt = time.Now().UTC()

	if err := s.writeRepo.Update(ctx, cmd.Email, account); err != nil {
		return nil, err
	}

	view = account.View()
	previousEmail := ""
	if account.Email != cmd.Email {
		previousEmail = cmd.Email
		s.readRepo.MoveAccountView(ctx, previousEmail, view)
	} else {
		s.readRepo.CacheAccountView(ctx, view)
	}
	s.publish(ctx, events.AccountUpdated, events.AccountUpdatedEvent{
		AccountID:     account.ID,
		Email:         account.Email,
		PreviousEmail: previousEmail,
	})
	return view, nil
}

// DeactivateAccount is the soft delete. The row and its email stay reserved.
func (s *AccountCommandService) DeactivateAccount(ctx context.Context, cmd cqrs.DeactivateAccountCommand) (view *models.AccountView, err error) {
	defer func() { metrics.RecordOperation("deactivate", err) }()

	account, err := s.writeRepo.Deactivate(ctx, cmd.Email, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	view = account.View()
	s.readRepo.CacheAccountView(ctx, view)
	s.publish(ctx, events.AccountDeactivated, events.AccountDeactivatedEvent{
		AccountID: account.ID,
		Email:     account.Email,
	})
	return view, nil
}

// ResetPassword replaces the credential. Active and deactivated accounts are
// both accepted and the active flag is left as is.
func (s *AccountCommandService) ResetPassword(ctx context.Context, cmd cqrs.ResetPasswordCommand) (err error) {
	defer func() { metrics.RecordOperation("reset_password", err) }()

	if cmd.NewPassword == "" {
		return models.ErrInvalidPassword
	}
	passwordHash, err := utils.HashPassword(cmd.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.writeRepo.UpdatePassword(ctx, utils.NormalizeEmail(cmd.Email), passwordHash, time.Now().UTC()); err != nil {
		return err
	}

	s.publish(ctx, events.AccountPasswordReset, events.AccountPasswordResetEvent{Email: utils.NormalizeEmail(cmd.Email)})
	return nil
}

func (s *AccountCommandService) publish(ctx context.Context, eventType string, data any) {
	if err := s.publisher.Publish(ctx, events.AccountEventsStream, eventType, data); err != nil {
		s.log.Warn().Err(err).Str("event", eventType).Msg("failed to publish event")
	}
}
