package service

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadbook/user-directory/internal/pkg/metrics"
	"github.com/leadbook/user-directory/internal/core/domain"
	"github.com/leadbook/user-directory/internal/core/ports"
)

// filterableFields lists the attributes FilterUsers accepts as equality criteria.
var filterableFields = map[string]struct{}{
	"firstName": {},
	"lastName":  {},
	"username":  {},
	"phone":     {},
	"email":     {},
	"role":      {},
}

// UserService implements the user directory use cases.
type UserService struct {
	users  ports.UserRepository
	leads  ports.LeadRepository
	hasher ports.PasswordHasher
	guard  ports.CreationGuard
	events ports.EventPublisher
	roles  map[string]struct{}
	loc    *time.Location
	now    func() time.Time
	logger zerolog.Logger
}

// UserServiceOption customises a UserService.
type UserServiceOption func(*UserService)

// WithCreationGuard reserves unique values in an external store while a
// creation is in flight.
func WithCreationGuard(guard ports.CreationGuard) UserServiceOption {
	return func(s *UserService) { s.guard = guard }
}

// WithEventPublisher sends an audit event for every mutation.
func WithEventPublisher(p ports.EventPublisher) UserServiceOption {
	return func(s *UserService) { s.events = p }
}

// WithRoles replaces the accepted role set.
func WithRoles(roles ...string) UserServiceOption {
	return func(s *UserService) {
		if len(roles) == 0 {
			return
		}
		s.roles = make(map[string]struct{}, len(roles))
		for _, r := range roles {
			s.roles[r] = struct{}{}
		}
	}
}

// WithLocation sets the time zone used to compute day boundaries in FilterUsers.
func WithLocation(loc *time.Location) UserServiceOption {
	return func(s *UserService) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func NewUserService(
	users ports.UserRepository,
	leads ports.LeadRepository,
	hasher ports.PasswordHasher,
	logger zerolog.Logger,
	opts ...UserServiceOption,
) *UserService {
	s := &UserService{
		users:  users,
		leads:  leads,
		hasher: hasher,
		loc:    time.UTC,
		now:    time.Now,
		logger: logger,
	}
	WithRoles(domain.DefaultRoles...)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.users.FindByID(ctx, id)
}

// FilterUsers returns users matching the equality criteria and the optional
// creation date range. Dates that do not parse are ignored, not rejected.
func (s *UserService) FilterUsers(ctx context.Context, input ports.FilterUsersInput) ([]*domain.User, error) {
	filter := ports.UserFilter{Fields: make(map[string]string, len(input.Criteria))}
	for key, value := range input.Criteria {
		if _, ok := filterableFields[key]; ok {
			filter.Fields[key] = value
		}
	}
	if day, ok := parseDay(input.StartingDate, s.loc); ok {
		filter.CreatedFrom = startOfDay(day)
	}
	if day, ok := parseDay(input.EndingDate, s.loc); ok {
		filter.CreatedTo = endOfDay(day)
	}

	users, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return users, nil
	}
	if err := s.attachLeads(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

// attachLeads enriches each user with the leads recorded for its phone number.
func (s *UserService) attachLeads(ctx context.Context, users []*domain.User) error {
	phones := make([]string, 0, len(users))
	for _, u := range users {
		if u.Phone != "" {
			phones = append(phones, u.Phone)
		}
	}
	if len(phones) == 0 {
		return nil
	}

	leads, err := s.leads.FindByClientPhones(ctx, phones)
	if err != nil {
		return err
	}
	byPhone := make(map[string][]domain.Lead, len(leads))
	for _, l := range leads {
		byPhone[l.ClientPhone] = append(byPhone[l.ClientPhone], l)
	}
	for _, u := range users {
		u.Leads = byPhone[u.Phone]
	}
	return nil
}

func (s *UserService) ListClients(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindByRole(ctx, domain.RoleClient)
}

func (s *UserService) ListEmployees(ctx context.Context) ([]*domain.User, error) {
	return s.users.FindByRole(ctx, domain.RoleEmployee)
}

// ListEmployeeClients returns the clients whose phone number appears on a
// non-archived lead allocated to employeeID.
func (s *UserService) ListEmployeeClients(ctx context.Context, employeeID string) ([]*domain.User, error) {
	clients, err := s.users.FindByRole(ctx, domain.RoleClient)
	if err != nil {
		return nil, err
	}
	if employeeID == "" {
		return []*domain.User{}, nil
	}

	leads, err := s.leads.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	phones := make(map[string]struct{}, len(leads))
	for _, l := range leads {
		if l.IsArchived {
			continue
		}
		phones[l.ClientPhone] = struct{}{}
	}

	scoped := make([]*domain.User, 0, len(clients))
	for _, c := range clients {
		if _, ok := phones[c.Phone]; ok {
			scoped = append(scoped, c)
		}
	}
	return scoped, nil
}

// CreateClient stores a new user with the payload role, "client" when absent.
func (s *UserService) CreateClient(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	role := input.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !s.validRole(role) {
		return nil, domain.ErrInvalidRole
	}
	return s.create(ctx, input, role)
}

// CreateEmployee stores a new user with a hashed password. The role is always
// "employee" whatever the payload says.
func (s *UserService) CreateEmployee(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if input.Password == "" {
		return nil, domain.NewValidationError("password is required")
	}
	return s.create(ctx, input, domain.RoleEmployee)
}

func (s *UserService) create(ctx context.Context, input ports.CreateUserInput, role string) (*domain.User, error) {
	held, release := s.reserve(ctx, input)
	defer release()

	if err := s.checkUniqueness(ctx, input.Username, input.Phone, input.Email); err != nil {
		return nil, err
	}
	if held != "" {
		metrics.UserConflictsTotal.WithLabelValues(string(held)).Inc()
		return nil, domain.ConflictFor(held)
	}

	password := input.Password
	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return nil, err
		}
		password = hash
	}

	now := s.now().UTC()
	created, err := s.users.Create(ctx, &domain.User{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Password:  password,
		Phone:     input.Phone,
		Email:     input.Email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("username", input.Username).Msg("failed to create user")
		return nil, err
	}

	metrics.UsersCreatedTotal.WithLabelValues(role).Inc()
	s.logger.Info().Str("user_id", created.ID).Str("role", role).Msg("user created")
	s.publish(ctx, domain.EventUserCreated, created.ID, map[string]string{"role": role})

	return created, nil
}

// reserve claims the unique values in the creation guard before the store
// check runs, and holds them until the insert has finished. It reports the
// field another in-flight creation holds, if any. Guard errors are logged and
// creation proceeds unguarded.
func (s *UserService) reserve(ctx context.Context, input ports.CreateUserInput) (domain.UniqueField, func()) {
	noop := func() {}
	if s.guard == nil {
		return "", noop
	}

	claims := uniqueClaims(input.Username, input.Phone, input.Email)
	held, err := s.guard.Reserve(ctx, claims)
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Str("username", input.Username).Msg("creation guard unavailable, creating unguarded")
		return "", noop
	case held != "":
		return held, noop
	}

	return "", func() {
		if err := s.guard.Release(context.WithoutCancel(ctx), claims); err != nil {
			s.logger.Warn().Err(err).Str("username", input.Username).Msg("failed to release creation guard")
		}
	}
}

// checkUniqueness looks up users sharing the username, phone or (non-empty)
// email and reports a single reason: username first, then phone, then email.
func (s *UserService) checkUniqueness(ctx context.Context, username, phone, email string) error {
	existing, err := s.users.FindConflicts(ctx, username, phone, email)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}

	conflict := conflictReason(existing, username, phone, email)
	if conflict == "" {
		return nil
	}
	metrics.UserConflictsTotal.WithLabelValues(string(conflict)).Inc()
	return domain.ConflictFor(conflict)
}

func conflictReason(existing []*domain.User, username, phone, email string) domain.UniqueField {
	for _, u := range existing {
		if u.Username == username {
			return domain.FieldUsername
		}
	}
	for _, u := range existing {
		if u.Phone == phone {
			return domain.FieldPhone
		}
	}
	if email != "" {
		for _, u := range existing {
			if u.Email == email {
				return domain.FieldEmail
			}
		}
	}
	return ""
}

func uniqueClaims(username, phone, email string) []ports.UniqueClaim {
	claims := []ports.UniqueClaim{
		{Field: domain.FieldUsername, Value: username},
		{Field: domain.FieldPhone, Value: phone},
	}
	if email != "" {
		claims = append(claims, ports.UniqueClaim{Field: domain.FieldEmail, Value: email})
	}
	return claims
}

func (s *UserService) UpdateRole(ctx context.Context, id, role string) (*domain.User, error) {
	if !s.validRole(role) {
		return nil, domain.ErrInvalidRole
	}

	updated, err := s.users.Update(ctx, id, ports.UserPatch{Role: &role}, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", id).Str("role", role).Msg("user role updated")
	s.publish(ctx, domain.EventUserRoleChanged, id, map[string]string{"role": role})
	return updated, nil
}

// UpdateUser applies a partial update. A new password is hashed before it is
// stored.
func (s *UserService) UpdateUser(ctx context.Context, id string, input ports.UpdateUserInput) (*domain.User, error) {
	if input.Role != nil && !s.validRole(*input.Role) {
		return nil, domain.ErrInvalidRole
	}

	patch := ports.UserPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Phone:     input.Phone,
		Email:     input.Email,
		Role:      input.Role,
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	updated, err := s.users.Update(ctx, id, patch, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.publish(ctx, domain.EventUserUpdated, id, nil)
	return updated, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	deleted, err := s.users.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	metrics.UsersDeletedTotal.WithLabelValues("single").Inc()
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	s.publish(ctx, domain.EventUserDeleted, id, nil)
	return deleted, nil
}

// DeleteAllUsers empties the users collection. It is only exposed through the
// admin purge route.
func (s *UserService) DeleteAllUsers(ctx context.Context) (int64, error) {
	n, err := s.users.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}

	metrics.UsersDeletedTotal.WithLabelValues("purge").Add(float64(n))
	s.logger.Warn().Int64("deleted", n).Str("actor", ports.ActorFrom(ctx)).Msg("users collection purged")
	s.publish(ctx, domain.EventUsersPurged, "", map[string]string{"count": strconv.FormatInt(n, 10)})
	return n, nil
}

func (s *UserService) validRole(role string) bool {
	_, ok := s.roles[role]
	return ok
}

func (s *UserService) publish(ctx context.Context, typ domain.UserEventType, userID string, details map[string]string) {
	if s.events == nil {
		return
	}
	s.events.Publish(domain.UserEvent{
		Type:       typ,
		UserID:     userID,
		Actor:      ports.ActorFrom(ctx),
		OccurredAt: s.now().UTC(),
		Details:    details,
	})
}
