package tests

import (
	"net/http"
	"testing"
)

func TestGateway_UserProfile(t *testing.T) {
	env := setupGatewayTestEnv(t)

	userID, token := signupStudent(t, env, "Profile User", "profile_user@test.com")

	// --- Test 1: Unauthenticated access is rejected ---
	t.Run("Profile Requires Token", func(t *testing.T) {
		rr := doJSON(env, "GET", "/api/users/profile", "", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
	})

	t.Run("Profile Rejects Garbage Token", func(t *testing.T) {
		rr := doJSON(env, "GET", "/api/users/profile", "not-a-valid-token", nil)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
	})

	// --- Test 2: Read own profile ---
	t.Run("Get Profile", func(t *testing.T) {
		rr := doJSON(env, "GET", "/api/users/profile", token, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		u, _ := resp["user"].(map[string]interface{})
		if u == nil {
			t.Fatal("User missing in response")
		}
		if u["id"] != userID {
			t.Errorf("Expected own profile %s, got %v", userID, u["id"])
		}
		if _, exposed := u["password"]; exposed {
			t.Error("Password must never appear in profile reads")
		}
	})

	// --- Test 3: Update allowed fields ---
	t.Run("Update Profile", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/users/profile", token, map[string]string{
			"fullName":   "Renamed User",
			"address":    "Dhanmondi, Dhaka",
			"bloodGroup": "O+",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		u, _ := resp["user"].(map[string]interface{})
		if u["fullName"] != "Renamed User" {
			t.Errorf("Expected updated name, got %v", u["fullName"])
		}
		if u["address"] != "Dhanmondi, Dhaka" {
			t.Errorf("Expected updated address, got %v", u["address"])
		}
	})

	// --- Test 4: Protected fields are dropped, not rejected ---
	t.Run("Protected Fields Silently Ignored", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/users/profile", token, map[string]string{
			"role":     "admin",
			"password": "hacked123",
			"googleId": "forged",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 for protected-field update, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		u, _ := resp["user"].(map[string]interface{})
		if u["role"] != "student" {
			t.Errorf("Role must not be escalated through profile update, got %v", u["role"])
		}
	})

	t.Run("Duplicate Email Rejected", func(t *testing.T) {
		signupStudent(t, env, "Taken Email", "taken_email@test.com")

		rr := doJSON(env, "PUT", "/api/users/profile", token, map[string]string{
			"email": "taken_email@test.com",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for email collision, got %d. Body: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Invalid Phone Rejected", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/users/profile", token, map[string]string{
			"phone": "12345",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
	})

	// --- Test 5: Change password ---
	t.Run("Change Password", func(t *testing.T) {
		rr := doJSON(env, "POST", "/api/users/change-password", token, map[string]string{
			"oldPassword": "password123",
			"newPassword": "newpassword456",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", rr.Code, rr.Body.String())
		}

		// Old password no longer works
		rr = doJSON(env, "POST", "/api/auth/signin", "", map[string]string{
			"email":    "profile_user@test.com",
			"password": "password123",
		})
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected old password to be rejected, got %d", rr.Code)
		}

		// New password does
		rr = doJSON(env, "POST", "/api/auth/signin", "", map[string]string{
			"email":    "profile_user@test.com",
			"password": "newpassword456",
		})
		if rr.Code != http.StatusOK {
			t.Errorf("Expected new password to work, got %d. Body: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Change Password Wrong Old", func(t *testing.T) {
		rr := doJSON(env, "POST", "/api/users/change-password", token, map[string]string{
			"oldPassword": "definitely-wrong",
			"newPassword": "whatever123",
		})
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for wrong old password, got %d", rr.Code)
		}
	})
}
