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
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/domain/profile"
	"github.com/khoahotran/devconnector/pkg/logger"
)

func bsonD(key string, v any) bson.D {
	return bson.D{{Key: key, Value: v}}
}

type socialDoc struct {
	YouTube   string `bson:"youtube,omitempty"`
	Twitter   string `bson:"twitter,omitempty"`
	Facebook  string `bson:"facebook,omitempty"`
	LinkedIn  string `bson:"linkedin,omitempty"`
	Instagram string `bson:"instagram,omitempty"`
}

type experienceDoc struct {
	ID          string     `bson:"id"`
	Title       string     `bson:"title"`
	Company     string     `bson:"company"`
	Location    string     `bson:"location,omitempty"`
	From        time.Time  `bson:"from"`
	To          *time.Time `bson:"to,omitempty"`
	Current     bool       `bson:"current"`
	Description string     `bson:"description,omitempty"`
}

type educationDoc struct {
	ID           string     `bson:"id"`
	School       string     `bson:"school"`
	Degree       string     `bson:"degree"`
	FieldOfStudy string     `bson:"fieldofstudy"`
	From         time.Time  `bson:"from"`
	To           *time.Time `bson:"to,omitempty"`
	Current      bool       `bson:"current"`
	Description  string     `bson:"description,omitempty"`
}

type profileDoc struct {
	ID             bson.ObjectID   `bson:"_id,omitempty"`
	User           string          `bson:"user"`
	Company        string          `bson:"company,omitempty"`
	Website        string          `bson:"website,omitempty"`
	Location       string          `bson:"location,omitempty"`
	Status         string          `bson:"status"`
	Skills         []string        `bson:"skills"`
	Bio            string          `bson:"bio,omitempty"`
	GitHubUsername string          `bson:"githubusername,omitempty"`
	Social         *socialDoc      `bson:"social,omitempty"`
	Experience     []experienceDoc `bson:"experience"`
	Education      []educationDoc  `bson:"education"`
	Version        int64           `bson:"version"`
	CreatedAt      time.Time       `bson:"created_at"`
	UpdatedAt      time.Time       `bson:"updated_at"`
}

func toProfileDoc(p *profile.Profile) profileDoc {
	d := profileDoc{
		User:           p.UserID.String(),
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Status:         p.Status,
		Skills:         p.Skills,
		Bio:            p.Bio,
		GitHubUsername: p.GitHubUsername,
		Experience:     make([]experienceDoc, len(p.Experience)),
		Education:      make([]educationDoc, len(p.Education)),
		Version:        p.Version,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if d.Skills == nil {
		d.Skills = []string{}
	}
	if !p.Social.IsZero() {
		s := socialDoc(p.Social)
		d.Social = &s
	}
	for i, e := range p.Experience {
		d.Experience[i] = experienceDoc{
			ID: e.ID.String(), Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	for i, e := range p.Education {
		d.Education[i] = educationDoc{
			ID: e.ID.String(), School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From, To: e.To, Current: e.Current, Description: e.Description,
		}
	}
	return d
}

func (d profileDoc) toDomain() (*profile.Profile, error) {
	userID, err := uuid.Parse(d.User)
	if err != nil {
		return nil, fmt.Errorf("profile %s has invalid user id: %w", d.ID.Hex(), err)
	}
	p := &profile.Profile{
		UserID:         userID,
		Company:        d.Company,
		Website:        d.Website,
		Location:       d.Location,
		Status:         d.Status,
		Skills:         d.Skills,
		Bio:            d.Bio,
		GitHubUsername: d.GitHubUsername,
		Experience:     make([]profile.Experience, 0, len(d.Experience)),
		Education:      make([]profile.Education, 0, len(d.Education)),
		Version:        d.Version,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if d.Social != nil {
		p.Social = profile.Social(*d.Social)
	}
	for _, e := range d.Experience {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("experience %q has invalid id: %w", e.ID, err)
		}
		p.Experience = append(p.Experience, profile.Experience{
			ID: id, Title: e.Title, Company: e.Company, Location: e.Location,
			From: e.From.UTC(), To: utcPtr(e.To), Current: e.Current, Description: e.Description,
		})
	}
	for _, e := range d.Education {
		id, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("education %q has invalid id: %w", e.ID, err)
		}
		p.Education = append(p.Education, profile.Education{
			ID: id, School: e.School, Degree: e.Degree, FieldOfStudy: e.FieldOfStudy,
			From: e.From.UTC(), To: utcPtr(e.To), Current: e.Current, Description: e.Description,
		})
	}
	return p, nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type mongoProfileRepo struct {
	collection *mongo.Collection
	logger     logger.Logger
}

func NewMongoProfileRepo(db *mongo.Database, log logger.Logger) profile.Repository {
	return &mongoProfileRepo{collection: db.Collection(profilesCollection), logger: log}
}

func (r *mongoProfileRepo) Insert(ctx context.Context, p *profile.Profile) error {
	p.Version = 1
	if _, err := r.collection.InsertOne(ctx, toProfileDoc(p)); err != nil {
		p.Version = 0
		if mongo.IsDuplicateKeyError(err) {
			return profile.ErrProfileExists
		}
		return fmt.Errorf("insert profile failed: %w", err)
	}
	return nil
}

// Update replaces the document only if nobody wrote it since p was read.
func (r *mongoProfileRepo) Update(ctx context.Context, p *profile.Profile) error {
	doc := toProfileDoc(p)
	doc.Version = p.Version + 1

	filter := bson.M{"user": doc.User, "version": p.Version}
	res, err := r.collection.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return fmt.Errorf("replace profile failed: %w", err)
	}
	if res.MatchedCount == 0 {
		r.logger.Warn("Stale profile write rejected",
			zap.String("user_id", doc.User),
			zap.Int64("version", p.Version),
		)
		return profile.ErrStaleProfile
	}
	p.Version = doc.Version
	return nil
}

func (r *mongoProfileRepo) FindByUserID(ctx context.Context, userID uuid.UUID) (*profile.Profile, error) {
	var doc profileDoc
	err := r.collection.FindOne(ctx, bson.M{"user": userID.String()}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, profile.ErrProfileNotFound
		}
		return nil, fmt.Errorf("find profile failed: %w", err)
	}
	return doc.toDomain()
}

func (r *mongoProfileRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	opts := options.Find().SetSort(bsonD("created_at", 1))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list profiles failed: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []profileDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode profiles failed: %w", err)
	}

	profiles := make([]*profile.Profile, 0, len(docs))
	for _, d := range docs {
		p, err := d.toDomain()
		if err != nil {
			r.logger.Warn("Skipping malformed profile document", zap.String("id", d.ID.Hex()), zap.Error(err))
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func (r *mongoProfileRepo) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"user": userID.String()})
	if err != nil {
		return fmt.Errorf("delete profile failed: %w", err)
	}
	if res.DeletedCount == 0 {
		return profile.ErrProfileNotFound
	}
	return nil
}
