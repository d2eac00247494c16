package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/xhad/newsum/internal/models"
	"github.com/xhad/newsum/internal/types"
)

type mongoArticle struct {
	ID      string `bson:"_id"`
	Seq     int64  `bson:"seq"`
	Source  string `bson:"source"`
	Title   string `bson:"title"`
	Link    string `bson:"link"`
	Content string `bson:"content"`
	Summary string `bson:"summary,omitempty"`
}

type MongoStore struct {
	client   *mongo.Client
	articles *mongo.Collection
}

func NewMongo(ctx context.Context, config StoreConfig) (*MongoStore, error) {
	if config.Database == "" {
		config.Database = "newsum"
	}
	if config.TableName == "" {
		config.TableName = "articles"
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(config.ConnString))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't ping MongoDB: %w", err)
	}

	m := &MongoStore{
		client:   client,
		articles: client.Database(config.Database).Collection(config.TableName),
	}

	_, err = m.articles.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "seq", Value: 1}}},
		{Keys: bson.D{{Key: "title", Value: 1}}},
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("can't create indexes: %w", err)
	}
	return m, nil
}

func (m *MongoStore) LoadAll(ctx context.Context) ([]models.Article, error) {
	filter := bson.M{"content": bson.M{"$nin": bson.A{"", nil}}}
	cursor, err := m.articles.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seq", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}
	defer cursor.Close(ctx)

	var docs []mongoArticle
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrStoreRead, err)
	}

	articles := make([]models.Article, 0, len(docs))
	for _, d := range docs {
		articles = append(articles, models.Article{
			ID:      d.ID,
			Source:  d.Source,
			Title:   d.Title,
			Link:    d.Link,
			Body:    d.Content,
			Summary: d.Summary,
		})
	}
	return articles, nil
}

func (m *MongoStore) UpdateSummary(ctx context.Context, title, summary string) error {
	res, err := m.articles.UpdateMany(ctx, bson.M{"title": title}, bson.M{"$set": bson.M{"summary": summary}})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrStoreWrite, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: %w: %q", types.ErrStoreWrite, types.ErrArticleNotFound, title)
	}
	return nil
}

func (m *MongoStore) Insert(ctx context.Context, articles []models.Article) error {
	if len(articles) == 0 {
		return nil
	}
	base := time.Now().UnixNano()
	docs := make([]interface{}, 0, len(articles))
	for i, a := range articles {
		id := a.ID
		if id == "" {
			id = uuid.NewString()
		}
		docs = append(docs, mongoArticle{
			ID:      id,
			Seq:     base + int64(i),
			Source:  a.Source,
			Title:   a.Title,
			Link:    a.Link,
			Content: a.Body,
			Summary: a.Summary,
		})
	}
	if _, err := m.articles.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert articles: %w", err)
	}
	return nil
}

func (m *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return m.client.Disconnect(ctx)
}
