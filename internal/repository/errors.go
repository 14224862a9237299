package repository

import "github.com/pkg/errors"

var (
	ErrAlreadyExists = errors.New("session state already exists")
	ErrNotFound      = errors.New("session state not found")
)
