package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/khoahotran/devconnector/internal/domain/post"
)

type postDoc struct {
	ID        string    `bson:"_id"`
	User      string    `bson:"user"`
	Text      string    `bson:"text"`
	Name      string    `bson:"name"`
	Avatar    string    `bson:"avatar"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d postDoc) toDomain() (*post.Post, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("post has invalid id %q: %w", d.ID, err)
	}
	userID, err := uuid.Parse(d.User)
	if err != nil {
		return nil, fmt.Errorf("post %s has invalid user id: %w", d.ID, err)
	}
	return &post.Post{
		ID:        id,
		UserID:    userID,
		Text:      d.Text,
		Name:      d.Name,
		Avatar:    d.Avatar,
		CreatedAt: d.CreatedAt.UTC(),
	}, nil
}

type mongoPostRepo struct {
	collection *mongo.Collection
}

func NewMongoPostRepo(db *mongo.Database) post.Repository {
	return &mongoPostRepo{collection: db.Collection(postsCollection)}
}

func (r *mongoPostRepo) Save(ctx context.Context, p *post.Post) error {
	doc := postDoc{
		ID:        p.ID.String(),
		User:      p.UserID.String(),
		Text:      p.Text,
		Name:      p.Name,
		Avatar:    p.Avatar,
		CreatedAt: p.CreatedAt,
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, opts); err != nil {
		return fmt.Errorf("save post failed: %w", err)
	}
	return nil
}

func (r *mongoPostRepo) FindByID(ctx context.Context, id uuid.UUID) (*post.Post, error) {
	var doc postDoc
	if err := r.collection.FindOne(ctx, bson.M{"_id": id.String()}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, post.ErrPostNotFound
		}
		return nil, fmt.Errorf("find post failed: %w", err)
	}
	return doc.toDomain()
}

func (r *mongoPostRepo) List(ctx context.Context) ([]*post.Post, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bsonD("created_at", -1)))
	if err != nil {
		return nil, fmt.Errorf("list posts failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode posts failed: %w", err)
	}
	posts := make([]*post.Post, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, nil
}

func (r *mongoPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return fmt.Errorf("delete post failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return post.ErrPostNotFound
	}
	return nil
}

func (r *mongoPostRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"user": userID.String()})
	if err != nil {
		return 0, fmt.Errorf("delete posts by user failed: %w", err)
	}
	return res.DeletedCount, nil
}
