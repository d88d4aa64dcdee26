package database

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pms-chatbot/models"
)

// MessageRepository writes chat exchanges to the messages collection
type MessageRepository struct {
	collection *mongo.Collection
}

func NewMessageRepository(db *mongo.Database) (*MessageRepository, error) {
	if db == nil {
		return nil, errors.New("database: mongo database must not be nil")
	}
	return &MessageRepository{collection: db.Collection(messagesCollection)}, nil
}

// SaveMessage inserts message and fills in its generated ID
func (r *MessageRepository) SaveMessage(ctx context.Context, message *models.Message) error {
	result, err := r.collection.InsertOne(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}
	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		message.ID = id
	}
	return nil
}
