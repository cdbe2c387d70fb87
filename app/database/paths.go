package database

import "fmt"

// ClassesRoot is the subtree all student records live under.
const ClassesRoot = "Classes"

func UserPath(uid string) string {
	return fmt.Sprintf("users/%s", uid)
}

func SectionPath(class, section string) string {
	return fmt.Sprintf("%s/%s/%s", ClassesRoot, class, section)
}

func StudentPath(class, section, key string) string {
	return fmt.Sprintf("%s/%s/%s/%s", ClassesRoot, class, section, key)
}
