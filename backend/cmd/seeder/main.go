package main

import (
	"context"
	"errors"
	"log"
	"time"

	"schoolhub/backend/internal/admin"
	"schoolhub/backend/internal/admission"
	"schoolhub/backend/internal/auth"
	"schoolhub/backend/internal/result"
	"schoolhub/backend/internal/shared"
)

// Demo accounts created by the seeder. Passwords are for local
// development only.
const (
	AdminUsername = "admin"
	AdminEmail    = "admin@schoolhub.local"
	AdminPassword = "admin12345"

	StudentName     = "Demo Student"
	StudentEmail    = "student@schoolhub.local"
	StudentPhone    = "01712345678"
	StudentPassword = "student12345"
)

func main() {
	log.Println("Starting SchoolHub database seeder...")

	shared.LoadEnv("")

	cfg, err := shared.LoadServiceConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := shared.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	adminSvc := admin.NewService(db, cfg)
	authSvc := auth.NewService(db, cfg)
	admissionSvc := admission.NewService(db)
	resultSvc := result.NewService(db)

	// 1. Back-office admin account
	a, err := adminSvc.CreateAdmin(ctx, &admin.CreateRequest{
		Username: AdminUsername,
		Email:    AdminEmail,
		Password: AdminPassword,
	})
	switch {
	case err == nil:
		log.Printf("Created admin %q (%s)", a.Username, a.ID)
	case isDuplicate(err):
		log.Printf("Admin %q already exists, skipping", AdminUsername)
	default:
		log.Fatalf("Failed to create admin: %v", err)
	}

	// 2. Demo student account
	student, _, err := authSvc.Signup(ctx, &auth.SignupRequest{
		FullName:        StudentName,
		Email:           StudentEmail,
		Phone:           StudentPhone,
		Password:        StudentPassword,
		ConfirmPassword: StudentPassword,
	})
	switch {
	case err == nil:
		log.Printf("Created student %q (%s)", student.Email, student.ID)
	case isDuplicate(err):
		log.Printf("Student %q already exists, skipping demo data", StudentEmail)
		log.Println("Seeding complete.")
		return
	default:
		log.Fatalf("Failed to create student: %v", err)
	}

	// 3. Demo admission application for the student
	app, err := admissionSvc.Create(ctx, student.ID, &admission.CreateRequest{
		FullName: StudentName,
		Email:    StudentEmail,
		Phone:    StudentPhone,
		Address:  "House 12, Road 5, Dhanmondi, Dhaka",
		Gender:   shared.GenderMale,

		SSCBoard: "Dhaka",
		SSCRoll:  "110023",
		SSCRegNo: "1510023456",
		SSCYear:  "2020",
		SSCGPA:   4.83,
		HSCBoard: "Dhaka",
		HSCRoll:  "210023",
		HSCRegNo: "1710023456",
		HSCYear:  "2022",
		HSCGPA:   5.00,

		SelectedUniversity: "University of Dhaka",
		SelectedProgram:    "Computer Science and Engineering",
		TotalFee:           100,
	})
	if err != nil {
		log.Fatalf("Failed to create demo admission: %v", err)
	}
	log.Printf("Created admission %s (%s)", app.ApplicationID, app.Status)

	// 4. Demo results for the student
	subjects := []result.CreateRequest{
		{StudentID: student.ID, Subject: "Mathematics", Score: 92, Semester: "Fall", Year: 2025},
		{StudentID: student.ID, Subject: "Physics", Score: 85, Semester: "Fall", Year: 2025},
		{StudentID: student.ID, Subject: "English", Score: 78, Semester: "Fall", Year: 2025},
	}
	for i := range subjects {
		res, err := resultSvc.Create(ctx, &subjects[i])
		if err != nil {
			log.Fatalf("Failed to create demo result: %v", err)
		}
		log.Printf("Created result %s: %s %.0f", res.ID, res.Subject, res.Score)
	}

	log.Println("Seeding complete.")
}

func isDuplicate(err error) bool {
	return errors.Is(err, shared.ErrDuplicateKey)
}
