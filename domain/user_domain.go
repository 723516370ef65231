package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

var (
	MessageSuccessLogin          = "you have been logged in"
	MessageSuccessGetProfile     = "profile retrieved successfully"
	MessageSuccessUpdateProfile  = "your profile has been updated"
	MessageSuccessChangePassword = "your password has been changed"
	MessageSuccessUploadImage    = "profile image uploaded successfully"
	MessageSuccessCreateUser     = "user created successfully"
	MessageSuccessGetUsers       = "users retrieved successfully"

	MessageFailedLogin          = "please check your credentials"
	MessageFailedGetProfile     = "failed to retrieve profile"
	MessageFailedUpdateProfile  = "failed to update profile"
	MessageFailedChangePassword = "failed to change password"
	MessageFailedUploadImage    = "failed to upload profile image"
	MessageFailedCreateUser     = "failed to create user"
	MessageFailedGetUsers       = "failed to retrieve users"

	ErrUserNotFound           = errors.New("user not found")
	ErrCredentialsInvalid     = errors.New("invalid email or password")
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrPasswordIncorrect      = errors.New("old password is incorrect")
)

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token   string `json:"token"`
		Email   string `json:"email"`
		IsAdmin bool   `json:"is_admin"`
	}

	UpdateProfileRequest struct {
		FirstName string `json:"first_name" validate:"omitempty,alpha,max=50"`
		LastName  string `json:"last_name" validate:"omitempty,alpha,max=50"`
		Phone     string `json:"phone" validate:"omitempty,len=10,number"`
		Address   string `json:"address" validate:"omitempty"`
		IDNumber  string `json:"id_number" validate:"omitempty,max=10"`
	}

	ChangePasswordRequest struct {
		OldPassword string `json:"old_password" validate:"required"`
		NewPassword string `json:"new_password" validate:"required,min=8"`
	}

	UploadProfileImageRequest struct {
		Image *multipart.FileHeader `json:"image" form:"image" validate:"required"`
	}

	CreateUserRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
		IsAdmin  bool   `json:"is_admin"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		FirstName string    `json:"first_name,omitempty"`
		LastName  string    `json:"last_name,omitempty"`
		Phone     string    `json:"phone,omitempty"`
		Address   string    `json:"address,omitempty"`
		IDNumber  string    `json:"id_number,omitempty"`
		ImageURL  string    `json:"image_url,omitempty"`
		IsAdmin   bool      `json:"is_admin"`
		CreatedAt time.Time `json:"created_at"`
	}
)
