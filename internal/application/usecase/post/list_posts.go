package post

import (
	"context"

	"github.com/khoahotran/devconnector/internal/domain/post"
)

type ListPostsUseCase struct {
	postRepo post.Repository
}

func NewListPostsUseCase(pRepo post.Repository) *ListPostsUseCase {
	return &ListPostsUseCase{postRepo: pRepo}
}

// Execute returns every post, newest first. No posts is an empty slice.
func (uc *ListPostsUseCase) Execute(ctx context.Context) ([]*post.Post, error) {
	ctx, span := tracer.Start(ctx, "ListPosts")
	defer span.End()

	posts, err := uc.postRepo.List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	if posts == nil {
		posts = []*post.Post{}
	}
	return posts, nil
}
