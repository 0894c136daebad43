package repository

import (
	"reviewhub/database"
)

func isUniqueViolation(err error) bool {
	return database.IsUniqueViolation(err)
}
