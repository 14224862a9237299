package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/yakoovad/club-portal/internal/backend"
	"github.com/yakoovad/club-portal/internal/model"
	"github.com/yakoovad/club-portal/pkg/logger"
	"go.uber.org/zap"
)

type ProfileService struct {
	users backend.UserAPI
}

func NewProfileService(users backend.UserAPI) *ProfileService {
	return &ProfileService{users: users}
}

func (p *ProfileService) GetProfile(ctx context.Context) (*model.Profile, *Error) {
	l := logger.FromContext(ctx)

	profile, err := p.users.GetProfile(ctx)
	if backend.IsNotFound(err) {
		l.Debug("profile not registered")
		return nil, NewError(ErrorCodeNotFound, "프로필이 없습니다.")
	}
	if err != nil {
		l.Error("failed to get profile", zap.Error(err))
		return nil, fromBackend(err, "프로필을 불러오는데 실패했습니다.")
	}
	return profile, nil
}

func (p *ProfileService) CreateProfile(ctx context.Context, req *model.CreateProfileRequest) (*model.Profile, *Error) {
	l := logger.FromContext(ctx)

	if verr := validateProfile(&req.Name, req.Phone, req.Positions, true); verr != nil {
		l.Warn("invalid profile", zap.String("reason", verr.Message))
		return nil, verr
	}

	profile, err := p.users.CreateProfile(ctx, req)
	if err != nil {
		l.Error("failed to create profile", zap.Error(err))
		return nil, fromBackend(err, "프로필 등록에 실패했습니다.")
	}
	l.Debug("profile created", zap.String("user_id", profile.ID))
	return profile, nil
}

func (p *ProfileService) UpdateProfile(ctx context.Context, req *model.UpdateProfileRequest) (*model.Profile, *Error) {
	l := logger.FromContext(ctx)

	if verr := validateProfile(req.Name, req.Phone, req.Positions, false); verr != nil {
		l.Warn("invalid profile update", zap.String("reason", verr.Message))
		return nil, verr
	}

	profile, err := p.users.UpdateProfile(ctx, req)
	if err != nil {
		l.Error("failed to update profile", zap.Error(err))
		return nil, fromBackend(err, "프로필 수정에 실패했습니다.")
	}
	return profile, nil
}

// ChangePassword checks the confirmation and the length before calling
// upstream.
func (p *ProfileService) ChangePassword(ctx context.Context, current, next, confirm string) *Error {
	l := logger.FromContext(ctx)

	if current == "" {
		return NewError(ErrorCodeValidation, "현재 비밀번호를 입력해주세요.")
	}
	if next != confirm {
		return NewError(ErrorCodeValidation, "비밀번호와 비밀번호 확인이 일치하지 않습니다.")
	}
	if utf8.RuneCountInString(next) < model.MinPasswordLength {
		return NewError(ErrorCodeValidation, "비밀번호는 최소 6자 이상이어야 합니다.")
	}

	if err := p.users.ChangePassword(ctx, &model.PasswordChange{CurrentPassword: current, NewPassword: next}); err != nil {
		l.Warn("failed to change password", zap.Error(err))
		return fromBackend(err, "비밀번호 변경에 실패했습니다.")
	}
	l.Info("password changed")
	return nil
}

// validateProfile runs before any network call. On create every field
// rule applies; on update only the fields present are checked.
func validateProfile(name, phone *string, positions []model.Position, create bool) *Error {
	if name != nil && strings.TrimSpace(*name) == "" {
		return NewError(ErrorCodeValidation, "이름을 입력해주세요.")
	}
	if phone != nil && *phone != "" && !model.ValidPhone(*phone) {
		return NewError(ErrorCodeValidation, "전화번호 형식이 올바르지 않습니다. (010-XXXX-XXXX)")
	}
	if create && len(positions) == 0 {
		return NewError(ErrorCodeValidation, "최소 1개 이상의 포지션을 선택해주세요.")
	}
	for _, pos := range positions {
		if !pos.Valid() {
			return NewError(ErrorCodeValidation, "올바르지 않은 포지션입니다.")
		}
	}
	return nil
}
