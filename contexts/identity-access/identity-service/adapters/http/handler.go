package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"spotlight/contexts/identity-access/identity-service/application"
	"spotlight/contexts/identity-access/identity-service/domain/entities"
	httptransport "spotlight/contexts/identity-access/identity-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) SignUpHandler(ctx context.Context, req httptransport.SignUpRequest) (httptransport.SignUpResponse, error) {
	result, err := h.Service.SignUp(ctx, application.SignUpInput{
		Email:           req.Email,
		Password:        req.Password,
		Role:            req.Role,
		DisplayName:     req.DisplayName,
		AdminInviteCode: req.AdminInviteCode,
	})
	if err != nil {
		return httptransport.SignUpResponse{}, err
	}
	return httptransport.SignUpResponse{
		User:                 mapUser(result.Account),
		VerificationRequired: result.VerificationRequired,
	}, nil
}

func (h Handler) SignInHandler(ctx context.Context, req httptransport.SignInRequest) (httptransport.SessionResponse, error) {
	result, err := h.Service.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	session := mapSession(result.Session)
	session.AccessToken = result.AccessToken
	return httptransport.SessionResponse{
		User:    mapUser(result.Account),
		Session: session,
	}, nil
}

func (h Handler) VerifyEmailHandler(ctx context.Context, req httptransport.VerifyEmailRequest) (httptransport.UserResponse, error) {
	account, err := h.Service.VerifyEmail(ctx, req.Token)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: mapUser(account)}, nil
}

func (h Handler) GetSessionHandler(ctx context.Context, accessToken string) (httptransport.SessionResponse, error) {
	view, err := h.Service.GetSession(ctx, accessToken)
	if err != nil {
		return httptransport.SessionResponse{}, err
	}
	return httptransport.SessionResponse{
		User:    mapUser(view.Account),
		Session: mapSession(view.Session),
	}, nil
}

func (h Handler) SignOutHandler(ctx context.Context, accessToken string) error {
	return h.Service.SignOut(ctx, accessToken)
}

func (h Handler) SetUserRoleHandler(
	ctx context.Context,
	actorID string,
	req httptransport.SetUserRoleRequest,
) (httptransport.UserResponse, error) {
	account, err := h.Service.SetUserRole(ctx, actorID, req.Email, req.Role)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return httptransport.UserResponse{User: mapUser(account)}, nil
}

func mapUser(account entities.Account) httptransport.UserDTO {
	return httptransport.UserDTO{
		ID:            account.AccountID,
		Email:         account.Email,
		Role:          string(account.Role),
		DisplayName:   account.DisplayName,
		EmailVerified: account.Verified(),
		CreatedAt:     account.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func mapSession(session entities.Session) httptransport.SessionDTO {
	return httptransport.SessionDTO{
		ID:        session.SessionID,
		IssuedAt:  session.IssuedAt.UTC().Format(time.RFC3339),
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
	}
}
