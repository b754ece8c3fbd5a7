package actors

import (
	stdctx "context"
	"fmt"
	"os"
	"testing"
	"time"

	"campus-swamp/internal/database"
	"campus-swamp/internal/live"
	"campus-swamp/internal/middleware"
	"campus-swamp/internal/models"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testDomain = "example.edu"

// testEnv connects to the MongoDB named by TEST_MONGODB_URI, using a
// throwaway database that is dropped afterwards. Tests that need it are
// skipped when the variable is unset.
func testEnv(t *testing.T) (*actor.ActorSystem, *database.MongoDB, *live.Bus) {
	t.Helper()
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	dbName := fmt.Sprintf("campus_swamp_test_%s", uuid.New().String()[:8])
	mongodb, err := database.NewMongoDB(uri, dbName)
	if err != nil {
		t.Fatalf("failed to connect to test MongoDB: %v", err)
	}
	t.Cleanup(func() {
		ctx, cancel := stdctx.WithTimeout(stdctx.Background(), 10*time.Second)
		defer cancel()
		mongodb.Client.Database(dbName).Drop(ctx)
		mongodb.Close(ctx)
	})

	middleware.InitJWT("test-secret", time.Hour)
	return actor.NewActorSystem(), mongodb, live.NewBus()
}

func spawnUserSupervisor(system *actor.ActorSystem, mongodb *database.MongoDB, bus *live.Bus) *actor.PID {
	return system.Root.Spawn(actor.PropsFromProducer(func() actor.Actor {
		return NewUserSupervisor(mongodb, bus, testDomain)
	}))
}

// registerUser creates an account through the supervisor and returns the
// new user.
func registerUser(t *testing.T, system *actor.ActorSystem, supervisor *actor.PID, name string) *models.User {
	t.Helper()
	future := system.Root.RequestFuture(supervisor, &RegisterUserMsg{
		Name:     name,
		Email:    fmt.Sprintf("%s@%s", name, testDomain),
		Password: "password123",
	}, 5*time.Second)

	result, err := future.Result()
	assert.NoError(t, err)
	user, ok := result.(*models.User)
	if !ok {
		t.Fatalf("registration returned %T: %v", result, result)
	}
	return user
}

// askActor is a shorthand for RequestFuture with the standard timeout.
func askActor(t *testing.T, system *actor.ActorSystem, pid *actor.PID, msg interface{}) interface{} {
	t.Helper()
	future := system.Root.RequestFuture(pid, msg, 5*time.Second)
	result, err := future.Result()
	assert.NoError(t, err)
	return result
}
