// internal/engine/actors/user_actor.go
package actors

import (
	"log"
	"strings"
	"sync"
	"time"

	stdctx "context"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/models"
	"campus-swamp/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Message types for the user subsystem
type (
	RegisterUserMsg struct {
		Name     string
		Email    string
		Password string
		Year     string
		Section  string
		Branch   string
	}

	LoginMsg struct {
		Email    string
		Password string
	}

	LogoutMsg struct {
		UserID uuid.UUID
	}

	GetUserProfileMsg struct {
		UserID uuid.UUID
	}

	UpdateProfileMsg struct {
		UserID uuid.UUID
		Update models.ProfileUpdate
	}

	GetAllUsersMsg struct{}
)

// LoginResponse is what the login endpoint returns on success; failures
// come back as an *utils.AppError instead.
type LoginResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token,omitempty"`
	UserID  string `json:"userId,omitempty"`
}

// UserSupervisor owns one child actor per known user and routes account
// messages to them. Registration and login hit MongoDB here first, since
// both need a lookup before any per-user actor exists.
type UserSupervisor struct {
	userActors    map[uuid.UUID]*actor.PID
	emailToID     map[string]uuid.UUID
	mu            sync.RWMutex
	mongodb       *database.MongoDB
	bus           *live.Bus
	allowedDomain string
}

func NewUserSupervisor(mongodb *database.MongoDB, bus *live.Bus, allowedDomain string) actor.Actor {
	return &UserSupervisor{
		userActors:    make(map[uuid.UUID]*actor.PID),
		emailToID:     make(map[string]uuid.UUID),
		mongodb:       mongodb,
		bus:           bus,
		allowedDomain: allowedDomain,
	}
}

func (s *UserSupervisor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *RegisterUserMsg:
		s.handleRegister(context, msg)

	case *LoginMsg:
		s.handleLogin(context, msg)

	case *LogoutMsg:
		pid, err := s.getOrCreateUserActor(context, msg.UserID)
		if err != nil {
			context.Respond(utils.NewUserNotFoundError(msg.UserID.String()))
			return
		}
		s.forward(context, pid, msg)

	case *GetUserProfileMsg:
		pid, err := s.getOrCreateUserActor(context, msg.UserID)
		if err != nil {
			context.Respond(utils.NewUserNotFoundError(msg.UserID.String()))
			return
		}
		s.forward(context, pid, msg)

	case *UpdateProfileMsg:
		pid, err := s.getOrCreateUserActor(context, msg.UserID)
		if err != nil {
			context.Respond(utils.NewUserNotFoundError(msg.UserID.String()))
			return
		}
		s.forward(context, pid, msg)

	case *GetAllUsersMsg:
		ctx := stdctx.Background()
		users, err := s.mongodb.GetAllUsers(ctx)
		if err != nil {
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to list users", err))
			return
		}
		context.Respond(users)
	}
}

func (s *UserSupervisor) handleRegister(context actor.Context, msg *RegisterUserMsg) {
	email := strings.ToLower(strings.TrimSpace(msg.Email))
	if !emailInDomain(email, s.allowedDomain) {
		log.Printf("UserSupervisor: rejected registration from outside domain: %s", email)
		context.Respond(utils.NewDomainNotAllowedError(s.allowedDomain))
		return
	}
	if msg.Name == "" || msg.Password == "" {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Name and password are required", nil))
		return
	}

	ctx := stdctx.Background()
	if existing, _ := s.mongodb.GetUserByEmail(ctx, email); existing != nil {
		context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil))
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(msg.Password), bcrypt.DefaultCost)
	if err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidInput, "Failed to hash password", err))
		return
	}

	now := time.Now()
	user := &models.User{
		ID:             uuid.New(),
		Name:           msg.Name,
		Email:          email,
		HashedPassword: string(hashed),
		Year:           msg.Year,
		Section:        msg.Section,
		Branch:         msg.Branch,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.mongodb.SaveUser(ctx, user); err != nil {
		if utils.IsErrorCode(err, utils.ErrDuplicate) {
			context.Respond(utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil))
			return
		}
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to create user", err))
		return
	}

	pid := context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(user.ID, s.mongodb, s.bus)
	}))
	s.mu.Lock()
	s.userActors[user.ID] = pid
	s.emailToID[email] = user.ID
	s.mu.Unlock()

	s.bus.Publish(live.Event{
		Topic:   live.TopicRoster,
		Kind:    "joined",
		Key:     user.ID.String(),
		Payload: user,
	})

	log.Printf("UserSupervisor: registered %s (%s)", user.Name, user.ID)
	context.Respond(user)
}

func (s *UserSupervisor) handleLogin(context actor.Context, msg *LoginMsg) {
	email := strings.ToLower(strings.TrimSpace(msg.Email))

	ctx := stdctx.Background()
	user, err := s.mongodb.GetUserByEmail(ctx, email)
	if err != nil {
		// Same error for unknown email and wrong password.
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(msg.Password)); err != nil {
		context.Respond(utils.NewAppError(utils.ErrInvalidCredentials, "Invalid credentials", nil))
		return
	}

	token, err := middleware.GenerateToken(user.ID)
	if err != nil {
		log.Printf("UserSupervisor: failed to issue token for %s: %v", user.ID, err)
		context.Respond(utils.NewAppError(utils.ErrDatabase, "Login failed", err))
		return
	}

	// Make sure an actor exists for subsequent profile messages.
	if _, err := s.getOrCreateUserActor(context, user.ID); err != nil {
		log.Printf("UserSupervisor: failed to spawn actor for %s: %v", user.ID, err)
	}

	context.Respond(&LoginResponse{
		Success: true,
		Token:   token,
		UserID:  user.ID.String(),
	})
}

func (s *UserSupervisor) forward(context actor.Context, pid *actor.PID, msg interface{}) {
	future := context.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	if err != nil {
		context.Respond(utils.NewActorTimeoutError("user operation timed out"))
		return
	}
	context.Respond(result)
}

func (s *UserSupervisor) getOrCreateUserActor(context actor.Context, userID uuid.UUID) (*actor.PID, error) {
	s.mu.RLock()
	pid, exists := s.userActors[userID]
	s.mu.RUnlock()
	if exists {
		return pid, nil
	}

	ctx := stdctx.Background()
	user, err := s.mongodb.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	pid = context.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewUserActor(user.ID, s.mongodb, s.bus)
	}))
	s.mu.Lock()
	s.userActors[user.ID] = pid
	s.emailToID[user.Email] = user.ID
	s.mu.Unlock()
	return pid, nil
}

func emailInDomain(email, domain string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return strings.EqualFold(email[at+1:], domain)
}

// UserActor serializes operations for one account.
type UserActor struct {
	userID  uuid.UUID
	mongodb *database.MongoDB
	bus     *live.Bus
}

func NewUserActor(userID uuid.UUID, mongodb *database.MongoDB, bus *live.Bus) *UserActor {
	return &UserActor{userID: userID, mongodb: mongodb, bus: bus}
}

func (a *UserActor) Receive(context actor.Context) {
	switch msg := context.Message().(type) {
	case *GetUserProfileMsg:
		ctx := stdctx.Background()
		user, err := a.mongodb.GetUser(ctx, a.userID)
		if err != nil {
			context.Respond(utils.NewUserNotFoundError(a.userID.String()))
			return
		}
		context.Respond(user)

	case *UpdateProfileMsg:
		ctx := stdctx.Background()
		user, err := a.mongodb.UpdateProfile(ctx, a.userID, &msg.Update)
		if err != nil {
			if appErr, ok := err.(*utils.AppError); ok {
				context.Respond(appErr)
				return
			}
			context.Respond(utils.NewAppError(utils.ErrDatabase, "Failed to update profile", err))
			return
		}
		a.bus.Publish(live.Event{
			Topic:   live.TopicRoster,
			Kind:    "updated",
			Key:     user.ID.String(),
			Payload: user,
		})
		context.Respond(user)

	case *LogoutMsg:
		// Token invalidation is client-side; the server's job is to stop
		// showing the user as online right away.
		ctx := stdctx.Background()
		if err := a.mongodb.SetPresence(ctx, a.userID, false); err != nil {
			log.Printf("UserActor: offline write failed for %s: %v", a.userID, err)
		}
		a.bus.Publish(live.Event{
			Topic: live.TopicPresence,
			Kind:  "offline",
			Key:   a.userID.String(),
			Payload: map[string]interface{}{
				"userId": a.userID.String(),
				"online": false,
			},
		})
		context.Respond(&LogoutResponse{Success: true})
	}
}

// LogoutResponse acknowledges a logout.
type LogoutResponse struct {
	Success bool `json:"success"`
}
