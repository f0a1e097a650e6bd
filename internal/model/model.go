package model

import "time"

const (
	RoleAdmin           = "admin"
	RoleActivityManager = "activity-manager"
	RoleStudent         = "student"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleActivityManager, RoleStudent:
		return true
	default:
		return false
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

type Activity struct {
	Description     string
	Schedule        string
	MaxParticipants int
	Participants    []string
}
