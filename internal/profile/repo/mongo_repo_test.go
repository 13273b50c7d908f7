package repo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-youapp/pkg/database"
)

func TestMongoRepo(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx := context.Background()
	name := fmt.Sprintf("youapp_profiles_test_%d", time.Now().UnixNano())
	client, db, err := database.ConnectMongo(ctx, database.MongoConfig{URI: uri, Database: name})
	if err != nil {
		t.Skipf("mongo unavailable: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})

	r := NewMongoRepo(db)
	require.NoError(t, r.EnsureIndexes(ctx))
	storeContract(t, r)
}
