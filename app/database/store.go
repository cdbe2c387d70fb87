package database

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/db"
	"google.golang.org/api/option"
)

// RecordStore is the hierarchical key-value store student records and user
// metadata live in. Paths are slash-delimited. Get decodes the subtree at
// path into v and leaves v untouched when the path is empty; Set replaces
// the whole subtree at path.
type RecordStore interface {
	Get(ctx context.Context, path string, v any) error
	Set(ctx context.Context, path string, v any) error
}

// FirebaseStore is the production RecordStore, backed by the Firebase
// Realtime Database.
type FirebaseStore struct {
	client *db.Client
}

func NewFirebaseStore(ctx context.Context, databaseURL, credentialsPath string) (*FirebaseStore, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{DatabaseURL: databaseURL},
		option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("firebase app: %w", err)
	}
	client, err := app.Database(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase database: %w", err)
	}
	return &FirebaseStore{client: client}, nil
}

func (s *FirebaseStore) Get(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Get(ctx, v)
}

func (s *FirebaseStore) Set(ctx context.Context, path string, v any) error {
	return s.client.NewRef(path).Set(ctx, v)
}
