package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type UserRepoIntegrationTestSuite struct {
	suite.Suite
	dbPool      *pgxpool.Pool
	pgContainer *postgres.PostgresContainer
	userRepo    user.Repository
}

func (s *UserRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	testLogger := logger.NewNop()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(1*time.Minute),
		),
	)
	if err != nil {
		s.T().Fatalf("Failed to start postgres container: %s", err)
	}
	s.pgContainer = pgContainer

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	if err := RunMigrations("../../migrations", dsn, testLogger); err != nil {
		s.T().Fatalf("Failed to run migrations: %s", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		s.T().Fatalf("Failed to create pgxpool: %s", err)
	}
	s.dbPool = pool
	s.userRepo = NewPostgresUserRepo(s.dbPool, testLogger)
}

func (s *UserRepoIntegrationTestSuite) TearDownSuite() {
	if s.dbPool != nil {
		s.dbPool.Close()
	}
	if s.pgContainer != nil {
		if err := s.pgContainer.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate postgres container: %s", err)
		}
	}
}

func TestUserRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(UserRepoIntegrationTestSuite))
}

func (s *UserRepoIntegrationTestSuite) newUser(email string) *user.User {
	return &user.User{
		ID:           uuid.New(),
		Name:         "Grace",
		Email:        email,
		Avatar:       "https://img/grace",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *UserRepoIntegrationTestSuite) Test_Create_FindByEmail_FindByID() {
	ctx := context.Background()
	u := s.newUser("grace@example.com")
	s.Require().NoError(s.userRepo.Create(ctx, u))

	byEmail, err := s.userRepo.FindByEmail(ctx, u.Email)
	s.Require().NoError(err)
	s.Equal(u.ID, byEmail.ID)
	s.Equal(u.PasswordHash, byEmail.PasswordHash)

	byID, err := s.userRepo.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(u.Name, byID.Name)
	s.True(u.CreatedAt.Equal(byID.CreatedAt))

	_, err = s.userRepo.FindByID(ctx, uuid.New())
	s.ErrorIs(err, user.ErrUserNotFound)
}

func (s *UserRepoIntegrationTestSuite) Test_Create_DuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.userRepo.Create(ctx, s.newUser("dup@example.com")))
	s.ErrorIs(s.userRepo.Create(ctx, s.newUser("dup@example.com")), user.ErrEmailTaken)
}

func (s *UserRepoIntegrationTestSuite) Test_FindProjections_SkipsUnknown() {
	ctx := context.Background()
	a := s.newUser("proj-a@example.com")
	b := s.newUser("proj-b@example.com")
	s.Require().NoError(s.userRepo.Create(ctx, a))
	s.Require().NoError(s.userRepo.Create(ctx, b))

	got, err := s.userRepo.FindProjections(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})
	s.Require().NoError(err)
	s.Len(got, 2)
	s.Equal(a.Projection(), got[a.ID])
}

func (s *UserRepoIntegrationTestSuite) Test_UpdateAvatar_And_Delete() {
	ctx := context.Background()
	u := s.newUser("avatar@example.com")
	s.Require().NoError(s.userRepo.Create(ctx, u))

	s.Require().NoError(s.userRepo.UpdateAvatar(ctx, u.ID, "https://cdn/new"))
	got, err := s.userRepo.FindByID(ctx, u.ID)
	s.Require().NoError(err)
	s.Equal("https://cdn/new", got.Avatar)

	s.Require().NoError(s.userRepo.Delete(ctx, u.ID))
	s.ErrorIs(s.userRepo.Delete(ctx, u.ID), user.ErrUserNotFound)
}
