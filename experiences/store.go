package experiences

import (
	"context"
	"errors"
	"regexp"
	"time"

	"roamio/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("experience not found")

// BrowseQuery is a validated browse request. Page and Limit are 1-based
// and positive; From/To bound start_time inclusively when set.
type BrowseQuery struct {
	Location string
	From     *time.Time
	To       *time.Time
	Page     int64
	Limit    int64
	Desc     bool
}

// Store is the persistence surface the service needs. The Mongo adapter
// is the production implementation; tests use an in-memory fake.
type Store interface {
	Insert(ctx context.Context, exp *models.Experience) error
	FindByID(ctx context.Context, id string) (*models.Experience, error)
	SetStatus(ctx context.Context, id string, status models.ExperienceStatus) error
	SetBanner(ctx context.Context, id string, banner string) error
	Search(ctx context.Context, q BrowseQuery) ([]models.Experience, int64, error)
}

type MongoStore struct {
	Col *mongo.Collection
}

func NewMongoStore(col *mongo.Collection) *MongoStore {
	return &MongoStore{Col: col}
}

func (s *MongoStore) Insert(ctx context.Context, exp *models.Experience) error {
	_, err := s.Col.InsertOne(ctx, exp)
	return err
}

func (s *MongoStore) FindByID(ctx context.Context, id string) (*models.Experience, error) {
	var exp models.Experience
	err := s.Col.FindOne(ctx, bson.M{"experienceid": id}).Decode(&exp)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &exp, nil
}

func (s *MongoStore) SetStatus(ctx context.Context, id string, status models.ExperienceStatus) error {
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"experienceid": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) SetBanner(ctx context.Context, id string, banner string) error {
	res, err := s.Col.UpdateOne(ctx,
		bson.M{"experienceid": id},
		bson.M{"$set": bson.M{"banner": banner, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// searchFilter builds the browse filter. The published-only clause is
// unconditional: draft and blocked experiences never reach the public
// list no matter what the caller filters on.
func searchFilter(q BrowseQuery) bson.M {
	filter := bson.M{"status": models.StatusPublished}
	if q.Location != "" {
		filter["location"] = bson.M{
			"$regex":   regexp.QuoteMeta(q.Location),
			"$options": "i",
		}
	}
	timeRange := bson.M{}
	if q.From != nil {
		timeRange["$gte"] = *q.From
	}
	if q.To != nil {
		timeRange["$lte"] = *q.To
	}
	if len(timeRange) > 0 {
		filter["start_time"] = timeRange
	}
	return filter
}

func (s *MongoStore) Search(ctx context.Context, q BrowseQuery) ([]models.Experience, int64, error) {
	filter := searchFilter(q)

	// Total is counted over the whole filter, not the page window.
	total, err := s.Col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	sortDir := 1
	if q.Desc {
		sortDir = -1
	}
	skip := (q.Page - 1) * q.Limit

	cursor, err := s.Col.Find(ctx, filter, options.Find().
		SetSort(bson.D{{Key: "start_time", Value: sortDir}}).
		SetSkip(skip).
		SetLimit(q.Limit))
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var experiences []models.Experience
	if err := cursor.All(ctx, &experiences); err != nil {
		return nil, 0, err
	}
	return experiences, total, nil
}
