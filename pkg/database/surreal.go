package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jerehe1/folio/pkg/logger"
	sdk "github.com/surrealdb/surrealdb.go"
)

// SurrealOptions selects the SurrealDB endpoint, credentials and namespace.
type SurrealOptions struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// ConnectSurreal signs in to SurrealDB and selects the namespace and database.
func ConnectSurreal(ctx context.Context, opts SurrealOptions) (*sdk.DB, error) {
	// The SDK appends /rpc itself
	endpoint := strings.TrimSuffix(strings.TrimSuffix(opts.URL, "/rpc"), "/")

	db, err := sdk.FromEndpointURLString(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("connecting to SurrealDB: %w", err)
	}

	if opts.Username != "" {
		if _, err := db.SignIn(ctx, sdk.Auth{
			Namespace: opts.Namespace,
			Database:  opts.Database,
			Username:  opts.Username,
			Password:  opts.Password,
		}); err != nil {
			_ = db.Close(ctx)
			return nil, fmt.Errorf("signing in: %w", err)
		}
	}

	if err := db.Use(ctx, opts.Namespace, opts.Database); err != nil {
		_ = db.Close(ctx)
		return nil, fmt.Errorf("selecting ns/db: %w", err)
	}

	logger.WithField("endpoint", endpoint).Info("Connected to SurrealDB")
	return db, nil
}
