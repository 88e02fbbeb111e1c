package service

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"samarithanna-api/internal/dto"
	"samarithanna-api/internal/mailer"
	"samarithanna-api/internal/metrics"
	"samarithanna-api/internal/model"
	"samarithanna-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("correo o contraseña inválidos")
	ErrEmailTaken         = errors.New("ya existe una cuenta con ese correo")
)

// Hash dummy para igualar el costo de bcrypt cuando el correo no existe.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

type UserService struct {
	users     UserRepository
	auth      *AuthService
	publisher EmailPublisher
	log       *logrus.Logger
	metrics   metrics.Recorder
}

func NewUserService(users UserRepository, auth *AuthService, publisher EmailPublisher, log *logrus.Logger, rec metrics.Recorder) *UserService {
	return &UserService{
		users:     users,
		auth:      auth,
		publisher: publisher,
		log:       log,
		metrics:   rec,
	}
}

// Signup crea la cuenta como customer sin admitir y encola el correo de
// bienvenida. El correo es fire-and-forget.
func (s *UserService) Signup(ctx context.Context, req dto.SignupRequest) (dto.UserResponse, error) {
	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return dto.UserResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return dto.UserResponse{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dto.UserResponse{}, err
	}

	user := &model.User{
		Name:       req.Name,
		Email:      req.Email,
		Password:   string(hashed),
		UserType:   model.RoleCustomer,
		IsAdmitted: false,
	}
	if err := s.users.Insert(ctx, user); err != nil {
		return dto.UserResponse{}, err
	}

	s.sendWelcome(ctx, user)
	return s.toResponse(user)
}

func (s *UserService) sendWelcome(ctx context.Context, user *model.User) {
	job := mailer.EmailJob{
		Kind:           mailer.KindWelcome,
		RecipientName:  user.Name,
		RecipientEmail: user.Email,
	}
	if err := s.publisher.Publish(ctx, job); err != nil {
		s.metrics.RecordEmailEnqueueFailed(mailer.KindWelcome)
		s.log.WithError(err).WithField("email", user.Email).Error("No se pudo encolar el correo de bienvenida")
		return
	}
	s.metrics.RecordEmailEnqueued(mailer.KindWelcome)
}

// Signin valida credenciales y devuelve perfil + token. Compara bcrypt aun
// cuando el correo no existe, para no filtrar cuáles cuentas hay.
func (s *UserService) Signin(ctx context.Context, req dto.SigninRequest) (dto.UserResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)

	hash := dummyHash
	if err == nil {
		hash = user.Password
	}
	compareErr := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password))

	if err != nil || compareErr != nil {
		return dto.UserResponse{}, ErrInvalidCredentials
	}
	return s.toResponse(user)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.FindAll(ctx)
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	return s.users.FindByID(ctx, oid)
}

// AdminUpdate edita cuenta, rol, admisión y política de cadencia.
// daysFrequency/minOrders se escriben tal cual vienen: mandar cero los quita,
// igual que la edición original.
func (s *UserService) AdminUpdate(ctx context.Context, id string, req dto.AdminUpdateUserRequest) (*model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.UserType != "" {
		user.UserType = req.UserType
	}
	if req.IsAdmitted != nil {
		user.IsAdmitted = *req.IsAdmitted
	}
	user.DaysFrequency = req.DaysFrequency
	user.MinOrders = req.MinOrders

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile: autoservicio de nombre/correo/contraseña. Devuelve un token
// nuevo porque los claims llevan nombre y correo.
func (s *UserService) UpdateProfile(ctx context.Context, ident Identity, req dto.UpdateProfileRequest) (dto.UserResponse, error) {
	user, err := s.users.FindByID(ctx, ident.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			return dto.UserResponse{}, err
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return dto.UserResponse{}, err
	}
	return s.toResponse(user)
}

func (s *UserService) toResponse(user *model.User) (dto.UserResponse, error) {
	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.UserResponse{
		ID:         user.ID.Hex(),
		Name:       user.Name,
		Email:      user.Email,
		UserType:   user.UserType,
		IsAdmitted: user.IsAdmitted,
		Token:      token,
	}, nil
}
