package post

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/khoahotran/devconnector/internal/domain/user"
	"github.com/khoahotran/devconnector/internal/testutil"
	"github.com/khoahotran/devconnector/pkg/apperror"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type PostUseCaseTestSuite struct {
	suite.Suite
	ctx    context.Context
	author *user.User
	posts  *testutil.PostRepo
	create *CreatePostUseCase
	get    *GetPostUseCase
	list   *ListPostsUseCase
	delete *DeletePostUseCase
}

func TestPostUseCase(t *testing.T) {
	suite.Run(t, new(PostUseCaseTestSuite))
}

func (s *PostUseCaseTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.author = &user.User{ID: uuid.New(), Name: "Frank", Avatar: "https://img/frank"}
	s.posts = testutil.NewPostRepo()
	log := logger.NewNop()
	s.create = NewCreatePostUseCase(s.posts, testutil.NewUserRepo(s.author), log)
	s.get = NewGetPostUseCase(s.posts)
	s.list = NewListPostsUseCase(s.posts)
	s.delete = NewDeletePostUseCase(s.posts, log)
}

func (s *PostUseCaseTestSuite) Test_Create_StampsAuthor() {
	p, err := s.create.Execute(s.ctx, CreatePostInput{UserID: s.author.ID, Text: " hello "})
	s.Require().NoError(err)
	s.Equal("hello", p.Text)
	s.Equal("Frank", p.Name)
	s.Equal("https://img/frank", p.Avatar)

	got, err := s.get.Execute(s.ctx, GetPostInput{PostID: p.ID})
	s.Require().NoError(err)
	s.Equal(p.ID, got.ID)
}

func (s *PostUseCaseTestSuite) Test_Create_EmptyText() {
	_, err := s.create.Execute(s.ctx, CreatePostInput{UserID: s.author.ID, Text: "   "})
	s.Equal(http.StatusBadRequest, apperror.ToHTTPStatus(err))
}

func (s *PostUseCaseTestSuite) Test_List_NewestFirst() {
	empty, err := s.list.Execute(s.ctx)
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	first, err := s.create.Execute(s.ctx, CreatePostInput{UserID: s.author.ID, Text: "one"})
	s.Require().NoError(err)
	time.Sleep(time.Millisecond)
	second, err := s.create.Execute(s.ctx, CreatePostInput{UserID: s.author.ID, Text: "two"})
	s.Require().NoError(err)

	posts, err := s.list.Execute(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(second.ID, posts[0].ID)
	s.Equal(first.ID, posts[1].ID)
}

func (s *PostUseCaseTestSuite) Test_Delete_OnlyAuthor() {
	p, err := s.create.Execute(s.ctx, CreatePostInput{UserID: s.author.ID, Text: "mine"})
	s.Require().NoError(err)

	err = s.delete.Execute(s.ctx, DeletePostInput{PostID: p.ID, UserID: uuid.New()})
	s.Equal(http.StatusForbidden, apperror.ToHTTPStatus(err))

	s.Require().NoError(s.delete.Execute(s.ctx, DeletePostInput{PostID: p.ID, UserID: s.author.ID}))

	_, err = s.get.Execute(s.ctx, GetPostInput{PostID: p.ID})
	s.Equal(http.StatusNotFound, apperror.ToHTTPStatus(err))
}
