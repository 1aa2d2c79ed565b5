package helpers

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDB connects to the test database, skipping the test when no
// database is configured so the pure-logic suites still run anywhere.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL")
	}
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL or DATABASE_URL must be set for integration tests")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return pool
}

// CleanupTestDB removes rows created by the test suite. Food logs,
// friendships and reactions cascade off users.
func CleanupTestDB(t *testing.T, pool *pgxpool.Pool) {
	ctx := context.Background()
	_, err := pool.Exec(ctx, "DELETE FROM users WHERE email LIKE 'test%@example.com'")
	if err != nil {
		t.Logf("Warning: failed to cleanup test data: %v", err)
	}
	pool.Close()
}

// GenerateMockClerkJWT generates a mock JWT token for testing
func GenerateMockClerkJWT(clerkID string) (string, error) {
	secretKey := []byte("test-secret-key-for-testing-only")

	claims := jwt.MapClaims{
		"sub": clerkID,
		"iss": "https://clerk.test",
		"iat": time.Now().Unix(),
		"exp": time.Now().Add(time.Hour * 24).Unix(),
		"azp": "test-app-id",
		"sid": "sess_test123",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// MockClerkWebhookPayload builds a webhook body for the given lifecycle
// event. Email defaults to a test address derived from the Clerk ID.
func MockClerkWebhookPayload(eventType, clerkID, email string) []byte {
	if email == "" {
		email = fmt.Sprintf("test.%s@example.com", clerkID)
	}

	switch eventType {
	case "user.created":
		return []byte(fmt.Sprintf(`{
			"object": "event",
			"type": "user.created",
			"data": {
				"id": "%s",
				"first_name": "Test",
				"last_name": "User",
				"username": "testuser_%s",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "%s",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123"
			}
		}`, clerkID, clerkID, email))

	case "user.updated":
		return []byte(fmt.Sprintf(`{
			"object": "event",
			"type": "user.updated",
			"data": {
				"id": "%s",
				"first_name": "Updated",
				"last_name": "User",
				"username": "updated_%s",
				"email_addresses": [{
					"id": "email_123",
					"email_address": "%s",
					"verification": {"status": "verified"}
				}],
				"primary_email_address_id": "email_123"
			}
		}`, clerkID, clerkID, email))

	case "user.deleted":
		return []byte(fmt.Sprintf(`{
			"object": "event",
			"type": "user.deleted",
			"data": {
				"id": "%s",
				"deleted": true
			}
		}`, clerkID))
	}
	return nil
}
