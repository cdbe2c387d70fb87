// Provisions a user-directory entry for an existing Firebase account, so a
// freshly created login stops failing with "user metadata not found".
//
//	go run ./cmd/provision_user -uid <uid> -role teacher -class 5 -section A
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"maplewood-records/app/config"
	"maplewood-records/app/database"
	"maplewood-records/app/models"
)

func main() {
	uid := flag.String("uid", "", "Firebase user id to provision")
	roleStr := flag.String("role", "", "role: teacher or counselor")
	class := flag.String("class", "", "assigned class (teachers only)")
	section := flag.String("section", "", "assigned section (teachers only)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	role, ok := models.ParseRole(*roleStr)
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown role %q: use teacher or counselor\n", *roleStr)
		os.Exit(1)
	}
	if *uid == "" {
		fmt.Fprintln(os.Stderr, "-uid is required")
		os.Exit(1)
	}
	if role == models.RoleTeacher && (*class == "" || *section == "") {
		fmt.Fprintln(os.Stderr, "teachers need -class and -section")
		os.Exit(1)
	}

	ctx := context.Background()
	store, err := database.NewFirebaseStore(ctx, cfg.FirebaseDBURL, cfg.CredentialsPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	entry := map[string]string{"role": string(role)}
	if role == models.RoleTeacher {
		entry["assignedClass"] = *class
		entry["assignedSection"] = *section
	}
	if err := store.Set(ctx, database.UserPath(*uid), entry); err != nil {
		fmt.Fprintf(os.Stderr, "writing %s: %v\n", database.UserPath(*uid), err)
		os.Exit(1)
	}

	fmt.Printf("Provisioned %s as %s\n", *uid, role)
}
