package usershandler

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"leave-backend/db"
	authutils "leave-backend/lib/utils/auth-utils"
	usersstore "leave-backend/lib/users/store"
	authapimodels "leave-backend/models/api/auth"
	usersapimodels "leave-backend/models/api/users"
	dbmodels "leave-backend/models/db"
)

type Provider interface {
	Login(email, password string) (authapimodels.JWTResponse, error)
	RefreshToken(refreshToken string) (authapimodels.JWTResponse, error)
	Me(ctx *fiber.Ctx) (usersapimodels.UserView, error)
	Create(data usersapimodels.UserCreateData) (id string, err error)
	List() ([]usersapimodels.UserView, error)
	GetByID(id string) (*usersapimodels.UserView, error)
}

var Instance Provider

func NewHandler() {
	Instance = NewInstance(db.DB)
}

func NewInstance(database *gorm.DB) Provider {
	return impl{
		store: usersstore.NewInstance(database),
	}
}

type impl struct {
	store usersstore.Provider
}

func (i impl) Login(email, password string) (authapimodels.JWTResponse, error) {
	logger := log.WithField("email", email)
	user, err := i.store.FindByEmail(email)
	if err != nil {
		logger.WithError(err).Error("ошибка поиска пользователя по почте")
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		logger.Debug("пользователь с такой почтой не найден")
		return authapimodels.JWTResponse{}, errors.New("пользователь с такой почтой не найден")
	}
	if authutils.GetMD5Hash(password) != user.Password {
		logger.Debug("пользователь не прошел проверку пароля")
		return authapimodels.JWTResponse{}, errors.New("пользователь не прошел проверку пароля")
	}
	tokenString, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		logger.WithError(err).Error("ошибка генерации JWT")
		return authapimodels.JWTResponse{}, err
	}
	refreshString, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		logger.WithError(err).Error("ошибка генерации refresh JWT")
		return authapimodels.JWTResponse{}, err
	}
	err = i.store.Update(user.ID, map[string]interface{}{"last_login": time.Now()})
	if err != nil {
		logger.WithError(err).Error("ошибка обновления даты последнего входа")
	}
	return authapimodels.JWTResponse{
		Token:        tokenString,
		RefreshToken: refreshString,
	}, nil
}

func (i impl) RefreshToken(refreshToken string) (authapimodels.JWTResponse, error) {
	userID, err := authutils.ParseToken(refreshToken)
	if err != nil {
		log.WithError(err).Debug("refresh token не прошел проверку")
		return authapimodels.JWTResponse{}, err
	}
	user, err := i.store.GetByID(userID)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	if user == nil || !user.IsActive {
		return authapimodels.JWTResponse{}, errors.New("пользователь не найден или заблокирован")
	}
	tokenString, err := authutils.GetToken(user.ID, user.GetFullName(), user.Role)
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	refreshString, err := authutils.GetRefreshToken(user.ID, user.GetFullName())
	if err != nil {
		return authapimodels.JWTResponse{}, err
	}
	return authapimodels.JWTResponse{
		Token:        tokenString,
		RefreshToken: refreshString,
	}, nil
}

func (i impl) Me(ctx *fiber.Ctx) (usersapimodels.UserView, error) {
	claims := authutils.GetClaims(ctx)
	sub, _ := claims["sub"].(string)
	user, err := i.store.GetByID(sub)
	if err != nil {
		return usersapimodels.UserView{}, err
	}
	if user == nil {
		return usersapimodels.UserView{}, errors.New("пользователь не найден")
	}
	return user.ToModel(), nil
}

func (i impl) Create(data usersapimodels.UserCreateData) (id string, err error) {
	logger := log.WithField("email", data.Email)
	exist, err := i.store.ExistByEmail(data.Email)
	if err != nil {
		return "", err
	}
	if exist {
		return "", errors.New("пользователь с такой почтой уже существует")
	}
	rec := dbmodels.User{
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Password:  authutils.GetMD5Hash(data.Password),
		Role:      data.Role,
		IsActive:  true,
	}
	id, err = i.store.Create(rec)
	if err != nil {
		logger.WithError(err).Error("Ошибка создания пользователя")
		return "", err
	}
	logger.
		WithField("user_id", id).
		Info("Создан пользователь")
	return id, nil
}

func (i impl) List() ([]usersapimodels.UserView, error) {
	recList, err := i.store.List()
	if err != nil {
		return nil, err
	}
	result := make([]usersapimodels.UserView, 0, len(recList))
	for _, rec := range recList {
		result = append(result, rec.ToModel())
	}
	return result, nil
}

func (i impl) GetByID(id string) (*usersapimodels.UserView, error) {
	rec, err := i.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, nil
	}
	view := rec.ToModel()
	return &view, nil
}
