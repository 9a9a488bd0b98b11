package database

import (
	"context"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDB = "inouttracker"

// ConnectMongo connects and pings MongoDB. The database name is taken from the
// URI path when present.
func ConnectMongo(mongoURI string) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(mongoURI)
	clientOptions.SetServerSelectionTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, nil, err
	}

	log.Info("Connected to MongoDB")
	return client, client.Database(mongoDBName(mongoURI)), nil
}

// mongoDBName extracts "db" from mongodb://host/db?opts.
func mongoDBName(uri string) string {
	rest := uri
	if i := strings.Index(rest, "://"); i != -1 {
		rest = rest[i+3:]
	}
	i := strings.Index(rest, "/")
	if i == -1 {
		return defaultMongoDB
	}
	name := strings.SplitN(rest[i+1:], "?", 2)[0]
	if name == "" {
		return defaultMongoDB
	}
	return name
}

// DisconnectMongo closes the client with a bounded timeout.
func DisconnectMongo(client *mongo.Client) error {
	if client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return client.Disconnect(ctx)
}
