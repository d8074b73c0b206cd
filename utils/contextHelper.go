package utils

import (
	"context"

	"bitbucket.org/mmdatafocus/store_backend/appctx"
)

var (
	ContextKeyToken    = appctx.ContextKeyToken
	ContextKeyUserId   = appctx.ContextKeyUserId
	ContextKeyUserName = appctx.ContextKeyUserName
	ContextKeyEmail    = appctx.ContextKeyEmail
)

func GetTokenFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyToken)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetUserNameFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyUserName)
}

func GetEmailFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyEmail)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetUserNameInContext(ctx context.Context, userName string) context.Context {
	return appctx.Set(ctx, ContextKeyUserName, userName)
}

func SetEmailInContext(ctx context.Context, email string) context.Context {
	return appctx.Set(ctx, ContextKeyEmail, email)
}
