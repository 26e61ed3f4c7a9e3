package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"

	"schoolhub/backend/internal/admission"
	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/gateway"
	"schoolhub/backend/internal/result"
	"schoolhub/backend/internal/shared"
	"schoolhub/backend/internal/user"
)

// TestEnv holds the running components for a gateway test.
type TestEnv struct {
	Router http.Handler
	DB     *mongo.Database

	Auth       *auth.Service
	Users      *user.Service
	Admissions *admission.Service
	Results    *result.Service
}

// setupGatewayTestEnv spins up the full backend against a scratch database.
// Tests are skipped when no MongoDB instance is reachable.
func setupGatewayTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	if err := godotenv.Load(".env"); err != nil {
		log.Println("Note: no .env file found, using defaults")
	}

	mongoURI := shared.GetEnv("MONGO_URI", "mongodb://localhost:27017")
	dbName := "schoolhub_test"

	mongoCfg := shared.DefaultMongoConfig(mongoURI, dbName)
	mongoCfg.ConnectTimeout = 10 * time.Second
	mongoCfg.MaxPoolSize = 10
	mongoCfg.MinPoolSize = 1

	client, db, err := shared.ConnectMongoDB(mongoCfg)
	if err != nil {
		t.Skipf("Skipping: MongoDB not reachable at %s: %v", mongoURI, err)
	}
	t.Cleanup(func() { shared.DisconnectMongoDB(client) })

	// Clean DB before starting
	if err := db.Drop(context.Background()); err != nil {
		t.Fatalf("Failed to drop test database: %v", err)
	}
	if err := shared.EnsureIndexes(context.Background(), db); err != nil {
		t.Fatalf("Failed to create indexes: %v", err)
	}

	cfg := &shared.ServiceConfig{
		ServiceName: "gateway-test",
		HTTPPort:    "0",
		Environment: "development",
		MongoDB:     *mongoCfg,
		Security: shared.SecurityConfig{
			JWTSecret:          "test-secret",
			JWTExpirationHours: 1,
			BCryptCost:         4,
		},
		CORS: shared.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		},
	}

	svcs := &gateway.Services{
		Auth:       auth.NewService(db, cfg),
		Users:      user.NewService(db, cfg),
		Admissions: admission.NewService(db),
		Results:    result.NewService(db),
	}

	return &TestEnv{
		Router:     gateway.SetupRoutes(svcs, cfg),
		DB:         db,
		Auth:       svcs.Auth,
		Users:      svcs.Users,
		Admissions: svcs.Admissions,
		Results:    svcs.Results,
	}
}

// doJSON performs a request against the router with an optional bearer
// token and JSON body.
func doJSON(env *TestEnv, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

// decodeResponse unmarshals a recorded body into a generic map.
func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rr.Body.String(), err)
	}
	return resp
}

// signupStudent registers a student through the public endpoint and
// returns the user id and token.
func signupStudent(t *testing.T, env *TestEnv, name, email string) (string, string) {
	t.Helper()

	rr := doJSON(env, "POST", "/api/auth/signup", "", map[string]string{
		"fullName":        name,
		"email":           email,
		"phone":           "01712345678",
		"password":        "password123",
		"confirmPassword": "password123",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("Signup failed: %d %s", rr.Code, rr.Body.String())
	}

	resp := decodeResponse(t, rr)
	token, _ := resp["token"].(string)
	u, _ := resp["user"].(map[string]interface{})
	id, _ := u["id"].(string)
	if token == "" || id == "" {
		t.Fatalf("Signup response missing token or user id: %s", rr.Body.String())
	}
	return id, token
}

// adminToken mints a token carrying the admin role directly from the
// token issuer. Back-office admins live outside the users collection, so
// there is no public signup path for them.
func adminToken(t *testing.T, env *TestEnv) string {
	t.Helper()

	token, _, err := env.Auth.IssueToken("adm_usr_test", "admin@test.local", shared.RoleAdmin)
	if err != nil {
		t.Fatalf("Failed to issue admin token: %v", err)
	}
	return token
}
