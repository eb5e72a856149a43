package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hirehub-gateway/internal/model"
)

const collectionMessages = "messages"

type MessageRepository struct {
	col   *mongo.Collection
	users *UserRepository
}

func NewMessageRepository(db *mongo.Database, users *UserRepository) *MessageRepository {
	return &MessageRepository{col: db.Collection(collectionMessages), users: users}
}

func (r *MessageRepository) Create(ctx context.Context, nm NewMessage) (*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	m := &model.Message{
		ID:        uuid.NewString(),
		Sender:    nm.Sender,
		Receiver:  nm.Receiver,
		Body:      nm.Body,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := r.col.InsertOne(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// FindResolved re-reads the persisted message and resolves both participants
// to display form. Broadcast payloads are always built from this re-read, so
// both sides of a conversation converge on the durably stored record.
func (r *MessageRepository) FindResolved(ctx context.Context, id string) (*model.ResolvedMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m model.Message
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, model.ErrMessageNotFound
		}
		return nil, err
	}

	resolved := &model.ResolvedMessage{
		ID:        m.ID,
		Sender:    model.UserRef{ID: m.Sender},
		Receiver:  model.UserRef{ID: m.Receiver},
		Body:      m.Body,
		Delivered: m.Delivered,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
	if u, err := r.users.FindByID(ctx, m.Sender); err == nil {
		resolved.Sender.Name = u.Name
	}
	if u, err := r.users.FindByID(ctx, m.Receiver); err == nil {
		resolved.Receiver.Name = u.Name
	}
	return resolved, nil
}

func (r *MessageRepository) ListConversation(ctx context.Context, a, b string) ([]*model.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"sender": a, "receiver": b},
		{"sender": b, "receiver": a},
	}}
	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var msgs []*model.Message
	if err := cur.All(ctx, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (r *MessageRepository) MarkDelivered(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"delivered": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return model.ErrMessageNotFound
	}
	return nil
}

func (r *MessageRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "sender", Value: 1}, {Key: "receiver", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "receiver", Value: 1}, {Key: "created_at", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
