package models

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/store_backend/config"
	"bitbucket.org/mmdatafocus/store_backend/utils"
)

type User struct {
	ID        int       `gorm:"primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	ImageUrl  string    `gorm:"size:255" json:"image_url"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	ImageUrl string `json:"image_url"`
}

type SigninInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileInput struct {
	Name     *string `json:"name"`
	ImageUrl *string `json:"image_url"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

type LoginInfo struct {
	Token    string `json:"token"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageUrl string `json:"image_url"`
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	db := config.GetDB()

	if err := utils.ValidateUnique[User](ctx, "email", input.Email, 0); err != nil {
		return nil, errors.New("a user with this email already exists")
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Name:     input.Name,
		Email:    input.Email,
		Password: string(hashed),
		ImageUrl: input.ImageUrl,
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Signin verifies credentials, issues a JWT and registers it as an active
// session so Signout can revoke it.
func Signin(ctx context.Context, input *SigninInput) (*LoginInfo, error) {
	db := config.GetDB()

	var user User
	if err := db.WithContext(ctx).First(&user, "email = ?", input.Email).Error; err != nil {
		return nil, errors.New("invalid email or password")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, errors.New("invalid email or password")
	}

	token, err := utils.JwtGenerate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	if err := config.SetRedisValue("Token:"+token, user.Email, utils.TokenLifespan()); err != nil {
		config.LogError(config.GetLogger(), "user.go", "Signin", "SetRedisValue", user.Email, err)
	}

	return &LoginInfo{
		Token:    token,
		Name:     user.Name,
		Email:    user.Email,
		ImageUrl: user.ImageUrl,
	}, nil
}

// Signout revokes the session token carried in the request context.
func Signout(ctx context.Context) error {
	token, ok := utils.GetTokenFromContext(ctx)
	if !ok || token == "" {
		return nil
	}
	return config.RemoveRedisKey("Token:" + token)
}

func GetUserByID(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}

func UpdateProfile(ctx context.Context, userId int, input *UpdateProfileInput) (*User, error) {
	db := config.GetDB()

	if err := utils.ValidateResourceId[User](ctx, userId); err != nil {
		return nil, errors.New("user not found")
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.ImageUrl != nil {
		fields["image_url"] = *input.ImageUrl
	}
	if len(fields) > 0 {
		if err := db.WithContext(ctx).Model(&User{}).Where("id = ?", userId).Updates(fields).Error; err != nil {
			return nil, err
		}
	}
	return GetUserByID(ctx, userId)
}

// ChangePassword re-verifies the current password before accepting the new
// one.
func ChangePassword(ctx context.Context, userId int, input *ChangePasswordInput) error {
	db := config.GetDB()

	user, err := GetUserByID(ctx, userId)
	if err != nil {
		return errors.New("user not found")
	}
	if err := utils.ComparePassword(user.Password, input.CurrentPassword); err != nil {
		return errors.New("current password is incorrect")
	}

	hashed, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Model(&User{}).Where("id = ?", userId).Update("password", string(hashed)).Error
}
