package persistence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/internal/domain/post"
	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type MongoRepoIntegrationTestSuite struct {
	suite.Suite
	container   *mongodb.MongoDBContainer
	client      *mongo.Client
	db          *mongo.Database
	profileRepo profile.Repository
	postRepo    post.Repository
}

func (s *MongoRepoIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()
	testLogger := logger.NewNop()

	container, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		s.T().Fatalf("Failed to start mongo container: %s", err)
	}
	s.container = container

	uri, err := container.ConnectionString(ctx)
	if err != nil {
		s.T().Fatalf("Failed to get connection string: %s", err)
	}

	var cfg config.Config
	cfg.Mongo.URI = uri
	cfg.Mongo.Database = "devconnector_test"
	s.client, s.db, err = NewMongoDatabase(ctx, cfg, testLogger)
	if err != nil {
		s.T().Fatalf("Failed to connect mongo: %s", err)
	}
	if err := EnsureIndexes(ctx, s.db); err != nil {
		s.T().Fatalf("Failed to create indexes: %s", err)
	}

	s.profileRepo = NewMongoProfileRepo(s.db, testLogger)
	s.postRepo = NewMongoPostRepo(s.db)
}

func (s *MongoRepoIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		_ = s.client.Disconnect(context.Background())
	}
	if s.container != nil {
		if err := s.container.Terminate(context.Background()); err != nil {
			s.T().Fatalf("Failed to terminate mongo container: %s", err)
		}
	}
}

func TestMongoRepoIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode.")
	}
	suite.Run(t, new(MongoRepoIntegrationTestSuite))
}

func (s *MongoRepoIntegrationTestSuite) newProfile() *profile.Profile {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return profile.New(uuid.New(), profile.Fields{
		Status: "Developer",
		Skills: "Go, Mongo",
		Social: profile.Social{Twitter: "https://t/x"},
	}, now)
}

func (s *MongoRepoIntegrationTestSuite) Test_Profile_RoundTrip() {
	ctx := context.Background()
	p := s.newProfile()
	p.AddExperience(profile.Experience{Title: "Eng", Company: "Acme", From: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)})
	p.AddEducation(profile.Education{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: time.Date(2010, 9, 1, 0, 0, 0, 0, time.UTC)})

	s.Require().NoError(s.profileRepo.Insert(ctx, p))
	s.Equal(int64(1), p.Version)

	got, err := s.profileRepo.FindByUserID(ctx, p.UserID)
	s.Require().NoError(err)
	s.Equal(p.Skills, got.Skills)
	s.Equal(p.Social, got.Social)
	s.Require().Len(got.Experience, 1)
	s.Equal(p.Experience[0].ID, got.Experience[0].ID)
	s.Nil(got.Experience[0].To)
	s.Equal(p.Education[0].ID, got.Education[0].ID)

	s.ErrorIs(s.profileRepo.Insert(ctx, s.withUser(p.UserID)), profile.ErrProfileExists)
}

func (s *MongoRepoIntegrationTestSuite) withUser(id uuid.UUID) *profile.Profile {
	p := s.newProfile()
	p.UserID = id
	return p
}

func (s *MongoRepoIntegrationTestSuite) Test_Profile_StaleUpdateRejected() {
	ctx := context.Background()
	p := s.newProfile()
	s.Require().NoError(s.profileRepo.Insert(ctx, p))

	first, err := s.profileRepo.FindByUserID(ctx, p.UserID)
	s.Require().NoError(err)
	second, err := s.profileRepo.FindByUserID(ctx, p.UserID)
	s.Require().NoError(err)

	first.Company = "First"
	s.Require().NoError(s.profileRepo.Update(ctx, first))
	s.Equal(int64(2), first.Version)

	second.Company = "Second"
	s.ErrorIs(s.profileRepo.Update(ctx, second), profile.ErrStaleProfile)

	got, err := s.profileRepo.FindByUserID(ctx, p.UserID)
	s.Require().NoError(err)
	s.Equal("First", got.Company)
}

func (s *MongoRepoIntegrationTestSuite) Test_Profile_ConcurrentAppendsKeepEveryWinner() {
	ctx := context.Background()
	p := s.newProfile()
	s.Require().NoError(s.profileRepo.Insert(ctx, p))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cur, err := s.profileRepo.FindByUserID(ctx, p.UserID)
			if err != nil {
				return
			}
			cur.AddExperience(profile.Experience{Title: "x", Company: "y", From: time.Now().UTC()})
			if s.profileRepo.Update(ctx, cur) == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := s.profileRepo.FindByUserID(ctx, p.UserID)
	s.Require().NoError(err)
	s.Len(got.Experience, wins)
}

func (s *MongoRepoIntegrationTestSuite) Test_Profile_ListAndDelete() {
	ctx := context.Background()
	p := s.newProfile()
	s.Require().NoError(s.profileRepo.Insert(ctx, p))

	all, err := s.profileRepo.List(ctx)
	s.Require().NoError(err)
	s.NotEmpty(all)

	s.Require().NoError(s.profileRepo.DeleteByUserID(ctx, p.UserID))
	_, err = s.profileRepo.FindByUserID(ctx, p.UserID)
	s.ErrorIs(err, profile.ErrProfileNotFound)
	s.ErrorIs(s.profileRepo.DeleteByUserID(ctx, p.UserID), profile.ErrProfileNotFound)
}

func (s *MongoRepoIntegrationTestSuite) Test_Posts_ListAndDeleteByUser() {
	ctx := context.Background()
	author := uuid.New()
	base := time.Now().UTC().Truncate(time.Millisecond)
	older := &post.Post{ID: uuid.New(), UserID: author, Text: "old", CreatedAt: base}
	newer := &post.Post{ID: uuid.New(), UserID: author, Text: "new", CreatedAt: base.Add(time.Second)}
	s.Require().NoError(s.postRepo.Save(ctx, older))
	s.Require().NoError(s.postRepo.Save(ctx, newer))

	got, err := s.postRepo.FindByID(ctx, older.ID)
	s.Require().NoError(err)
	s.Equal("old", got.Text)

	all, err := s.postRepo.List(ctx)
	s.Require().NoError(err)
	s.Require().GreaterOrEqual(len(all), 2)
	s.Equal(newer.ID, all[0].ID)

	n, err := s.postRepo.DeleteByUser(ctx, author)
	s.Require().NoError(err)
	s.Equal(int64(2), n)
	_, err = s.postRepo.FindByID(ctx, newer.ID)
	s.ErrorIs(err, post.ErrPostNotFound)
}
