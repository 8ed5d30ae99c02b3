package firebase

import (
	"context"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app and auth client
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
}

// InitFirebase initializes the Firebase application and authentication client
// from a service-account credentials file
func InitFirebase(ctx context.Context, credentialsPath string, log *zap.Logger) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}
	if _, err := os.Stat(credentialsPath); err != nil {
		return nil, fmt.Errorf("firebase credentials file %s: %w", credentialsPath, err)
	}

	firebaseApp, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	log.Info("firebase auth client initialized", zap.String("credentials", credentialsPath))
	return &App{FirebaseApp: firebaseApp, AuthClient: authClient}, nil
}
