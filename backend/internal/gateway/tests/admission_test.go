package tests

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"schoolhub/backend/internal/shared"
)

func TestGateway_Admissions(t *testing.T) {
	env := setupGatewayTestEnv(t)

	studentID, studentToken := signupStudent(t, env, "Applicant One", "applicant1@test.com")
	_, otherToken := signupStudent(t, env, "Applicant Two", "applicant2@test.com")
	admToken := adminToken(t, env)

	applicationBody := map[string]interface{}{
		"fullName":           "Applicant One",
		"email":              "applicant1@test.com",
		"phone":              "01712345678",
		"address":            "Mirpur, Dhaka",
		"gender":             "Male",
		"sscBoard":           "Dhaka",
		"sscRoll":            "110023",
		"sscYear":            "2020",
		"sscGPA":             4.83,
		"hscBoard":           "Dhaka",
		"hscRoll":            "210023",
		"hscYear":            "2022",
		"hscGPA":             5.00,
		"selectedUniversity": "University of Dhaka",
		"selectedProgram":    "Computer Science and Engineering",
		"totalFee":           100,
	}

	var admissionID string

	// --- Test 1: Create (POST /api/admissions) ---
	t.Run("Create Application With Defaults", func(t *testing.T) {
		rr := doJSON(env, "POST", "/api/admissions", studentToken, applicationBody)
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d. Body: %s", rr.Code, rr.Body.String())
		}

		resp := decodeResponse(t, rr)
		a, _ := resp["admission"].(map[string]interface{})
		if a == nil {
			t.Fatal("Admission missing in response")
		}
		admissionID, _ = a["id"].(string)

		if a["status"] != "Pending" {
			t.Errorf("Expected initial status Pending, got %v", a["status"])
		}
		if a["paymentStatus"] != "Completed" {
			t.Errorf("Expected payment status Completed, got %v", a["paymentStatus"])
		}
		if a["nationality"] != "Bangladeshi" {
			t.Errorf("Expected default nationality, got %v", a["nationality"])
		}
		if a["serviceFee"] != float64(100) {
			t.Errorf("Expected service fee 100, got %v", a["serviceFee"])
		}
		if a["userId"] != studentID {
			t.Errorf("Expected owner %s, got %v", studentID, a["userId"])
		}
		if appID, _ := a["applicationId"].(string); !strings.HasPrefix(appID, "APP") {
			t.Errorf("Expected APP-prefixed application id, got %v", a["applicationId"])
		}

		count, err := shared.CountDocumentsWithTimeout(context.Background(),
			env.DB.Collection(shared.AdmissionsCollection), bson.M{"user_id": studentID}, 5*time.Second)
		if err != nil {
			t.Fatalf("Failed to count admissions: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected 1 persisted application, got %d", count)
		}
	})

	t.Run("Create Requires Token", func(t *testing.T) {
		rr := doJSON(env, "POST", "/api/admissions", "", applicationBody)
		if rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", rr.Code)
		}
	})

	t.Run("Create Missing Required Fields", func(t *testing.T) {
		rr := doJSON(env, "POST", "/api/admissions", studentToken, map[string]interface{}{
			"fullName": "Incomplete",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d. Body: %s", rr.Code, rr.Body.String())
		}
	})

	// --- Test 2: Listing scoped to owner vs admin ---
	t.Run("My Applications Scoped To Owner", func(t *testing.T) {
		rr := doJSON(env, "GET", "/api/admissions/my-applications", studentToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", rr.Code)
		}
		resp := decodeResponse(t, rr)
		list, _ := resp["admissions"].([]interface{})
		if len(list) != 1 {
			t.Errorf("Expected 1 application for owner, got %d", len(list))
		}

		rr = doJSON(env, "GET", "/api/admissions/my-applications", otherToken, nil)
		resp = decodeResponse(t, rr)
		list, _ = resp["admissions"].([]interface{})
		if len(list) != 0 {
			t.Errorf("Expected no applications for other student, got %d", len(list))
		}
	})

	t.Run("List All Admin Only", func(t *testing.T) {
		rr := doJSON(env, "GET", "/api/admissions", studentToken, nil)
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for student, got %d", rr.Code)
		}

		rr = doJSON(env, "GET", "/api/admissions", admToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 for admin, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		list, _ := resp["admissions"].([]interface{})
		if len(list) != 1 {
			t.Errorf("Expected 1 application total, got %d", len(list))
		}
	})

	// --- Test 3: Status transitions ---
	t.Run("Status Update Admin Only", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/"+admissionID+"/status", studentToken, map[string]string{
			"status": "Approved",
		})
		if rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for student, got %d", rr.Code)
		}
	})

	t.Run("Invalid Status Rejected", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/"+admissionID+"/status", admToken, map[string]string{
			"status": "Waitlisted",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", rr.Code)
		}
	})

	t.Run("Approve Application", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/"+admissionID+"/status", admToken, map[string]string{
			"status":       "Approved",
			"adminRemarks": "Documents verified",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		a, _ := resp["admission"].(map[string]interface{})
		if a["status"] != "Approved" {
			t.Errorf("Expected Approved, got %v", a["status"])
		}
		if a["adminRemarks"] != "Documents verified" {
			t.Errorf("Expected remarks persisted, got %v", a["adminRemarks"])
		}
		if by, _ := a["approvedBy"].(string); by == "" {
			t.Error("Expected approvedBy to be recorded")
		}
		if at, _ := a["approvedAt"].(string); at == "" {
			t.Error("Expected approvedAt to be recorded")
		}
	})

	t.Run("Remarks Survive Status Re-Assertion", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/"+admissionID+"/status", admToken, map[string]string{
			"status": "Approved",
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decodeResponse(t, rr)
		a, _ := resp["admission"].(map[string]interface{})
		if a["adminRemarks"] != "Documents verified" {
			t.Errorf("Expected remarks to survive an update without them, got %v", a["adminRemarks"])
		}
	})

	t.Run("Decided Application Is Terminal", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/"+admissionID+"/status", admToken, map[string]string{
			"status": "Rejected",
		})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 when reversing a decision, got %d. Body: %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Status Update Unknown Application", func(t *testing.T) {
		rr := doJSON(env, "PUT", "/api/admissions/adm_nonexistent/status", admToken, map[string]string{
			"status": "Approved",
		})
		if rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d", rr.Code)
		}
	})
}
