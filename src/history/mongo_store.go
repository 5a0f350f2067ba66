package history

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Protocol-Lattice/spacex-agent/src/models"
)

const mongoCloseTimeout = 5 * time.Second

// MongoStore persists one transcript document per session id.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

type transcriptDoc struct {
	SessionID string       `bson:"_id"`
	Messages  []messageDoc `bson:"messages"`
	UpdatedAt time.Time    `bson:"updated_at"`
}

type messageDoc struct {
	Role       string        `bson:"role"`
	Content    string        `bson:"content,omitempty"`
	ToolCallID string        `bson:"tool_call_id,omitempty"`
	ToolCalls  []toolCallDoc `bson:"tool_calls,omitempty"`
}

type toolCallDoc struct {
	ID        string `bson:"id"`
	Name      string `bson:"name"`
	Arguments string `bson:"arguments"`
}

func NewMongoStore(ctx context.Context, uri, database, collection string) (*MongoStore, error) {
	if uri == "" {
		return nil, errors.New("mongo uri is required")
	}
	if database == "" {
		return nil, errors.New("mongo database name is required")
	}
	if collection == "" {
		return nil, errors.New("mongo collection name is required")
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return &MongoStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, sessionID string, messages []models.Message) error {
	doc := transcriptDoc{
		SessionID: sessionID,
		Messages:  toDocs(messages),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.collection.ReplaceOne(ctx,
		bson.M{"_id": sessionID},
		doc,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (s *MongoStore) Load(ctx context.Context, sessionID string) ([]models.Message, error) {
	var doc transcriptDoc
	err := s.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fromDocs(doc.Messages), nil
}

func (s *MongoStore) Close(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, mongoCloseTimeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func toDocs(messages []models.Message) []messageDoc {
	docs := make([]messageDoc, 0, len(messages))
	for _, msg := range messages {
		doc := messageDoc{
			Role:       msg.Role,
			Content:    msg.Content,
			ToolCallID: msg.ToolCallID,
		}
		for _, call := range msg.ToolCalls {
			doc.ToolCalls = append(doc.ToolCalls, toolCallDoc(call))
		}
		docs = append(docs, doc)
	}
	return docs
}

func fromDocs(docs []messageDoc) []models.Message {
	messages := make([]models.Message, 0, len(docs))
	for _, doc := range docs {
		msg := models.Message{
			Role:       doc.Role,
			Content:    doc.Content,
			ToolCallID: doc.ToolCallID,
		}
		for _, call := range doc.ToolCalls {
			msg.ToolCalls = append(msg.ToolCalls, models.ToolCall(call))
		}
		messages = append(messages, msg)
	}
	return messages
}

var _ Store = (*MongoStore)(nil)
